package ports

import (
	"context"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// CreateTicketInput carries the fields of a new ticket. Empty Status means
// the default swimlane.
type CreateTicketInput struct {
	Title       string
	Description string
	Status      string
	OwnerID     *int64
	ActorID     int64
}

// UpdateTicketInput is a partial patch; nil fields are untouched.
// OwnerSet with a nil OwnerID unassigns the ticket.
type UpdateTicketInput struct {
	Title       *string
	Description *string
	Status      *string
	OwnerSet    bool
	OwnerID     *int64
	ActorID     int64
}

// ListTicketsInput carries the optional list filters.
type ListTicketsInput struct {
	Status  string
	OwnerID *int64
}

// TicketService defines use-case operations for tickets.
type TicketService interface {
	ListTickets(ctx context.Context, input ListTicketsInput) ([]*domain.Ticket, error)
	GetTicket(ctx context.Context, id int64) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	UpdateTicket(ctx context.Context, id int64, input UpdateTicketInput) (*domain.Ticket, error)
	DeleteTicket(ctx context.Context, id, actorID int64) error
}
