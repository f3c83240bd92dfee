package ports

import (
	"context"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// TicketFilter narrows List. Zero values mean "no filter".
type TicketFilter struct {
	Status  domain.TicketStatus
	OwnerID *int64
}

// TicketChanges carries the columns a partial ticket update touches.
// OwnerSet distinguishes "leave owner alone" from "set owner to OwnerID",
// where a nil OwnerID unassigns the ticket.
type TicketChanges struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	OwnerSet    bool
	OwnerID     *int64
}

// Empty reports whether no column would change.
func (c TicketChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil && !c.OwnerSet
}

// TicketRepository defines persistence operations for tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *domain.Ticket) error
	FindByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// List returns matching tickets ordered by id ascending.
	List(ctx context.Context, filter TicketFilter) ([]*domain.Ticket, error)
	Update(ctx context.Context, id int64, changes TicketChanges) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
}
