package ports

import (
	"context"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// AuditLog persists mutation events. Callers treat failures as non-fatal.
type AuditLog interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
