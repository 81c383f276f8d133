package ports

import "context"

// SyncTarget is the external append log that mirrors entity writes.
// Implementations return an error on any failure; callers decide whether
// it matters.
type SyncTarget interface {
	Append(ctx context.Context, target string, values []string) error
}
