package mocks

import (
	"context"
	"sync"

	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// AppendedRow is one row captured by MockSyncTarget.
type AppendedRow struct {
	Target string
	Values []string
}

// MockSyncTarget records appended rows and can be told to fail or panic.
type MockSyncTarget struct {
	mu sync.RWMutex

	Rows []AppendedRow

	AppendError error
	Panic       bool

	AppendCallCount int
}

var _ ports.SyncTarget = (*MockSyncTarget)(nil)

func NewMockSyncTarget() *MockSyncTarget {
	return &MockSyncTarget{}
}

func (m *MockSyncTarget) Append(ctx context.Context, target string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCallCount++
	if m.Panic {
		panic("sync target exploded")
	}
	if m.AppendError != nil {
		return m.AppendError
	}

	copied := make([]string, len(values))
	copy(copied, values)
	m.Rows = append(m.Rows, AppendedRow{Target: target, Values: copied})
	return nil
}

// RowsFor returns a copy of the rows appended to target.
func (m *MockSyncTarget) RowsFor(target string) []AppendedRow {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []AppendedRow
	for _, r := range m.Rows {
		if r.Target == target {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockSyncTarget) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.AppendCallCount
}
