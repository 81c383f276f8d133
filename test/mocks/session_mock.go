package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// MockSessionStore keeps revoked token ids in memory.
type MockSessionStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time

	RevokeError    error
	IsRevokedError error
}

var _ ports.SessionStore = (*MockSessionStore)(nil)

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{revoked: make(map[string]time.Time)}
}

func (m *MockSessionStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (m *MockSessionStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	until, ok := m.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}
