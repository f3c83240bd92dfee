package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

// NopAuditLog discards events. Used when no audit store is configured.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, domain.AuditEvent) error { return nil }

// NopLoginLimiter never throttles. Used when Redis is not configured.
type NopLoginLimiter struct{}

func (NopLoginLimiter) Blocked(context.Context, string) (bool, error) { return false, nil }
func (NopLoginLimiter) RecordFailure(context.Context, string) error   { return nil }
func (NopLoginLimiter) Reset(context.Context, string) error           { return nil }

// recordAudit writes ev and only logs on failure: the mutation it describes
// has already been committed.
func recordAudit(ctx context.Context, audit ports.AuditLog, log zerolog.Logger, ev domain.AuditEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := audit.Record(ctx, ev); err != nil {
		log.Warn().
			Err(err).
			Str("action", string(ev.Action)).
			Int64("entity_id", ev.EntityID).
			Msg("failed to record audit event")
	}
}
