package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

type ticketFixture struct {
	svc     *TicketService
	users   *stubUserRepo
	tickets *stubTicketRepo
	audit   *recordingAudit
}

func newTicketFixture() *ticketFixture {
	users := newStubUserRepo()
	tickets := newStubTicketRepo(users)
	audit := &recordingAudit{}
	return &ticketFixture{
		svc:     NewTicketService(tickets, users, audit, zerolog.Nop()),
		users:   users,
		tickets: tickets,
		audit:   audit,
	}
}

func (f *ticketFixture) addUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestTicketService_CreateTicket_Defaults(t *testing.T) {
	f := newTicketFixture()

	ticket, err := f.svc.CreateTicket(context.Background(), ports.CreateTicketInput{Title: "  Write docs  ", ActorID: 7})
	if err != nil {
		t.Fatalf("CreateTicket returned error: %v", err)
	}
	if ticket.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if ticket.Title != "Write docs" {
		t.Fatalf("expected trimmed title, got %q", ticket.Title)
	}
	if ticket.Status != domain.StatusTodo {
		t.Fatalf("expected default status Todo, got %s", ticket.Status)
	}
	if ticket.Description != "" || ticket.OwnerID != nil {
		t.Fatalf("expected empty description and no owner, got %+v", ticket)
	}
	if len(f.audit.events) != 1 || f.audit.events[0].ActorID != 7 {
		t.Fatalf("expected one audit event by actor 7, got %+v", f.audit.events)
	}
}

func TestTicketService_CreateTicket_Validation(t *testing.T) {
	f := newTicketFixture()

	cases := []struct {
		name  string
		input ports.CreateTicketInput
		field string
	}{
		{"empty title", ports.CreateTicketInput{Title: "   "}, "title"},
		{"title too long", ports.CreateTicketInput{Title: strings.Repeat("x", 256)}, "title"},
		{"unknown status", ports.CreateTicketInput{Title: "x", Status: "Blocked"}, "status"},
		{"lowercase status", ports.CreateTicketInput{Title: "x", Status: "todo"}, "status"},
		{"missing owner", ports.CreateTicketInput{Title: "x", OwnerID: int64Ptr(99)}, "ownerId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateTicket(context.Background(), tc.input)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %v", tc.field, err)
			}
		})
	}
	if len(f.tickets.tickets) != 0 {
		t.Fatalf("expected nothing stored, got %d tickets", len(f.tickets.tickets))
	}
}

func TestTicketService_CreateTicket_WithOwner(t *testing.T) {
	f := newTicketFixture()
	owner := f.addUser(t, "alice")

	ticket, err := f.svc.CreateTicket(context.Background(), ports.CreateTicketInput{
		Title:   "Fix login",
		Status:  "InProgress",
		OwnerID: int64Ptr(owner.ID),
	})
	if err != nil {
		t.Fatalf("CreateTicket returned error: %v", err)
	}
	if ticket.OwnerID == nil || *ticket.OwnerID != owner.ID {
		t.Fatalf("expected owner %d, got %v", owner.ID, ticket.OwnerID)
	}
	if ticket.Status != domain.StatusInProgress {
		t.Fatalf("expected InProgress, got %s", ticket.Status)
	}
}

func TestTicketService_ListTickets_Filters(t *testing.T) {
	f := newTicketFixture()
	alice := f.addUser(t, "alice")
	ctx := context.Background()

	f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "a", Status: "Todo", OwnerID: int64Ptr(alice.ID)})
	f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "b", Status: "Done"})
	f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "c", Status: "Done", OwnerID: int64Ptr(alice.ID)})

	all, err := f.svc.ListTickets(ctx, ports.ListTicketsInput{})
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 tickets, got %d (%v)", len(all), err)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("expected ascending ids, got %d before %d", all[i-1].ID, all[i].ID)
		}
	}

	done, _ := f.svc.ListTickets(ctx, ports.ListTicketsInput{Status: "Done"})
	if len(done) != 2 {
		t.Fatalf("expected 2 Done tickets, got %d", len(done))
	}

	mine, _ := f.svc.ListTickets(ctx, ports.ListTicketsInput{Status: "Done", OwnerID: int64Ptr(alice.ID)})
	if len(mine) != 1 || mine[0].Title != "c" {
		t.Fatalf("expected only ticket c, got %+v", mine)
	}

	if _, err := f.svc.ListTickets(ctx, ports.ListTicketsInput{Status: "Later"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad status filter, got %v", err)
	}
}

func TestTicketService_UpdateTicket_Partial(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()
	created, _ := f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "Old", Description: "keep me"})

	updated, err := f.svc.UpdateTicket(ctx, created.ID, ports.UpdateTicketInput{Status: strPtr("Done")})
	if err != nil {
		t.Fatalf("UpdateTicket returned error: %v", err)
	}
	if updated.Status != domain.StatusDone {
		t.Fatalf("expected Done, got %s", updated.Status)
	}
	if updated.Title != "Old" || updated.Description != "keep me" {
		t.Fatalf("expected untouched fields to survive, got %+v", updated)
	}
}

func TestTicketService_UpdateTicket_Owner(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	created, _ := f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "t"})

	assigned, err := f.svc.UpdateTicket(ctx, created.ID, ports.UpdateTicketInput{OwnerSet: true, OwnerID: int64Ptr(alice.ID)})
	if err != nil {
		t.Fatalf("assign returned error: %v", err)
	}
	if assigned.Owner == nil || assigned.Owner.Username != "alice" {
		t.Fatalf("expected owner summary for alice, got %+v", assigned.Owner)
	}

	if _, err := f.svc.UpdateTicket(ctx, created.ID, ports.UpdateTicketInput{OwnerSet: true, OwnerID: int64Ptr(404)}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown owner, got %v", err)
	}

	cleared, err := f.svc.UpdateTicket(ctx, created.ID, ports.UpdateTicketInput{OwnerSet: true})
	if err != nil {
		t.Fatalf("unassign returned error: %v", err)
	}
	if cleared.OwnerID != nil || cleared.Owner != nil {
		t.Fatalf("expected ticket to be unassigned, got %+v", cleared)
	}
}

func TestTicketService_UpdateTicket_Errors(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()
	created, _ := f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "t"})

	if _, err := f.svc.UpdateTicket(ctx, created.ID, ports.UpdateTicketInput{Title: strPtr("")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty title, got %v", err)
	}
	if _, err := f.svc.UpdateTicket(ctx, 999, ports.UpdateTicketInput{Title: strPtr("x")}); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
	if _, err := f.svc.UpdateTicket(ctx, 999, ports.UpdateTicketInput{}); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound for empty patch on missing ticket, got %v", err)
	}
}

func TestTicketService_DeleteTicket(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()
	created, _ := f.svc.CreateTicket(ctx, ports.CreateTicketInput{Title: "t"})

	if err := f.svc.DeleteTicket(ctx, created.ID, 1); err != nil {
		t.Fatalf("DeleteTicket returned error: %v", err)
	}
	if _, err := f.svc.GetTicket(ctx, created.ID); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected deleted ticket to be gone, got %v", err)
	}
	if err := f.svc.DeleteTicket(ctx, created.ID, 1); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected second delete to report ErrTicketNotFound, got %v", err)
	}

	want := []domain.AuditAction{domain.AuditTicketCreated, domain.AuditTicketDeleted}
	got := f.audit.actions()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected audit %v, got %v", want, got)
	}
}
