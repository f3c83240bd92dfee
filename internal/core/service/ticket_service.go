package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

const maxTitleLength = 255

type TicketService struct {
	tickets ports.TicketRepository
	users   ports.UserRepository
	audit   ports.AuditLog
	logger  zerolog.Logger
}

func NewTicketService(tickets ports.TicketRepository, users ports.UserRepository, audit ports.AuditLog, logger zerolog.Logger) *TicketService {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &TicketService{tickets: tickets, users: users, audit: audit, logger: logger}
}

// ListTickets returns every ticket matching the optional filters, ordered by id.
func (s *TicketService) ListTickets(ctx context.Context, input ports.ListTicketsInput) ([]*domain.Ticket, error) {
	filter := ports.TicketFilter{OwnerID: input.OwnerID}
	if input.Status != "" {
		status, err := parseStatus(input.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.FindByID(ctx, id)
}

// CreateTicket validates and stores a new ticket. Status defaults to Todo
// and description to the empty string.
func (s *TicketService) CreateTicket(ctx context.Context, input ports.CreateTicketInput) (*domain.Ticket, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}

	status := domain.StatusTodo
	if input.Status != "" {
		if status, err = parseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	if input.OwnerID != nil {
		if err := s.ensureOwner(ctx, *input.OwnerID); err != nil {
			return nil, err
		}
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: input.Description,
		Status:      status,
		OwnerID:     input.OwnerID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	recordAudit(ctx, s.audit, s.logger, domain.AuditEvent{
		Entity:   "ticket",
		EntityID: ticket.ID,
		Action:   domain.AuditTicketCreated,
		ActorID:  input.ActorID,
		Changes:  map[string]any{"title": ticket.Title, "status": string(ticket.Status), "ownerId": ticket.OwnerID},
	})

	s.logger.Info().Int64("ticket_id", ticket.ID).Str("status", string(ticket.Status)).Msg("ticket created")
	return ticket, nil
}

// UpdateTicket applies a partial patch. Fields that are present are
// re-validated; absent fields keep their stored values.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input ports.UpdateTicketInput) (*domain.Ticket, error) {
	var changes ports.TicketChanges
	audited := map[string]any{}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		changes.Title = &title
		audited["title"] = title
	}
	if input.Description != nil {
		changes.Description = input.Description
		audited["description"] = *input.Description
	}
	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		changes.Status = &status
		audited["status"] = string(status)
	}
	if input.OwnerSet {
		if input.OwnerID != nil {
			if err := s.ensureOwner(ctx, *input.OwnerID); err != nil {
				return nil, err
			}
		}
		changes.OwnerSet = true
		changes.OwnerID = input.OwnerID
		audited["ownerId"] = input.OwnerID
	}

	if changes.Empty() {
		return s.tickets.FindByID(ctx, id)
	}

	ticket, err := s.tickets.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update ticket %d: %w", id, err)
	}

	recordAudit(ctx, s.audit, s.logger, domain.AuditEvent{
		Entity:   "ticket",
		EntityID: id,
		Action:   domain.AuditTicketUpdated,
		ActorID:  input.ActorID,
		Changes:  audited,
	})
	return ticket, nil
}

// DeleteTicket removes the ticket permanently. Deleting an id that no
// longer exists reports ErrTicketNotFound, including a repeated delete.
func (s *TicketService) DeleteTicket(ctx context.Context, id, actorID int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}

	recordAudit(ctx, s.audit, s.logger, domain.AuditEvent{
		Entity:   "ticket",
		EntityID: id,
		Action:   domain.AuditTicketDeleted,
		ActorID:  actorID,
	})

	s.logger.Info().Int64("ticket_id", id).Msg("ticket deleted")
	return nil
}

func (s *TicketService) ensureOwner(ctx context.Context, ownerID int64) error {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Invalid("ownerId", fmt.Sprintf("user %d does not exist", ownerID))
		}
		return fmt.Errorf("look up owner: %w", err)
	}
	return nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	switch {
	case title == "":
		return "", domain.Invalid("title", "title must not be empty")
	case utf8.RuneCountInString(title) > maxTitleLength:
		return "", domain.Invalid("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	return title, nil
}

func parseStatus(raw string) (domain.TicketStatus, error) {
	status := domain.TicketStatus(raw)
	if !status.Valid() {
		return "", domain.Invalid("status", fmt.Sprintf("status must be one of: %s, %s, %s",
			domain.StatusTodo, domain.StatusInProgress, domain.StatusDone))
	}
	return status, nil
}
