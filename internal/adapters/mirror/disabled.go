package mirror

import (
	"context"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
	"github.com/bloodconnect/bloodconnect-service/internal/core/ports"
)

// Disabled is the target used when mirroring is switched off or could not be
// configured. Every append fails immediately.
type Disabled struct{}

var _ ports.SyncTarget = Disabled{}

func (Disabled) Append(context.Context, string, []string) error {
	return domain.ErrMirrorDisabled
}
