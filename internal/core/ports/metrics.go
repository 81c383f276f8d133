package ports

type Metrics interface {
	RegistrationCompleted(kind string)
	MirrorSynced(target string, ok bool)
	StockRowsUpdated(n int)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RegistrationCompleted(string) {}
func (NopMetrics) MirrorSynced(string, bool)    {}
func (NopMetrics) StockRowsUpdated(int)         {}
