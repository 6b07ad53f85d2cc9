package ports

import (
	"context"

	"github.com/bitez/platform/internal/core/domain"
)

// AuditRepository stores auth events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

// AuditRecorder accepts events without blocking the caller. Delivery is best
// effort.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}
