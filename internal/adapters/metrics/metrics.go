package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// Metrics provides observability for registrations, mirror syncs, stock
// updates and HTTP traffic.
type Metrics struct {
	Registrations   *prometheus.CounterVec
	MirrorSyncs     *prometheus.CounterVec
	StockRows       prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

var _ ports.Metrics = (*Metrics)(nil)

// New registers every collector with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodconnect_registrations_total",
			Help: "Completed registrations by kind",
		}, []string{"kind"}),
		MirrorSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodconnect_mirror_syncs_total",
			Help: "Mirror append attempts by target and outcome",
		}, []string{"target", "outcome"}),
		StockRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloodconnect_stock_rows_updated_total",
			Help: "Stock rows saved through the dashboard",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bloodconnect_http_request_duration_seconds",
			Help:    "HTTP request duration by route pattern and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) RegistrationCompleted(kind string) {
	m.Registrations.WithLabelValues(kind).Inc()
}

func (m *Metrics) MirrorSynced(target string, ok bool) {
	outcome := "failed"
	if ok {
		outcome = "ok"
	}
	m.MirrorSyncs.WithLabelValues(target, outcome).Inc()
}

func (m *Metrics) StockRowsUpdated(n int) {
	if n > 0 {
		m.StockRows.Add(float64(n))
	}
}

// ObserveRequest records the duration of one HTTP request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
