package domain

import "time"

// AuditAction names a recorded mutation.
type AuditAction string

const (
	AuditTicketCreated AuditAction = "ticket.created"
	AuditTicketUpdated AuditAction = "ticket.updated"
	AuditTicketDeleted AuditAction = "ticket.deleted"
	AuditUserCreated   AuditAction = "user.created"
	AuditUserUpdated   AuditAction = "user.updated"
	AuditUserDeleted   AuditAction = "user.deleted"
)

// AuditEvent records who changed what. ActorID is zero for anonymous
// registrations.
type AuditEvent struct {
	Entity   string
	EntityID int64
	Action   AuditAction
	ActorID  int64
	At       time.Time
	Changes  map[string]any
}
