package mocks

import (
	"sync"

	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// MockMetrics counts what the services report.
type MockMetrics struct {
	mu sync.Mutex

	Registrations map[string]int
	MirrorOK      map[string]int
	MirrorFailed  map[string]int
	StockUpdated  int
}

var _ ports.Metrics = (*MockMetrics)(nil)

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Registrations: make(map[string]int),
		MirrorOK:      make(map[string]int),
		MirrorFailed:  make(map[string]int),
	}
}

func (m *MockMetrics) RegistrationCompleted(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registrations[kind]++
}

func (m *MockMetrics) MirrorSynced(target string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.MirrorOK[target]++
	} else {
		m.MirrorFailed[target]++
	}
}

func (m *MockMetrics) StockRowsUpdated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StockUpdated += n
}
