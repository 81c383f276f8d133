package ports

import (
	"context"
	"time"
)

// SessionStore tracks revoked session tokens by their jti.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
