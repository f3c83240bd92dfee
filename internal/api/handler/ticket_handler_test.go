package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

func TestTicketHandler_List_Filters(t *testing.T) {
	var got ports.ListTicketsInput
	stub := &stubTicketService{
		listFn: func(ctx context.Context, in ports.ListTicketsInput) ([]*domain.Ticket, error) {
			got = in
			return nil, nil
		},
	}

	c, rec := newContext(http.MethodGet, "/tickets?status=Done&ownerId=7", "", alice)
	if err := NewTicketHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Status != "Done" || got.OwnerID == nil || *got.OwnerID != 7 {
		t.Fatalf("unexpected filter: %+v", got)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestTicketHandler_List_BadOwner(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/tickets?ownerId=abc", "", alice)
	if err := NewTicketHandler(&stubTicketService{}).List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTicketHandler_Get(t *testing.T) {
	stub := &stubTicketService{
		getFn: func(ctx context.Context, id int64) (*domain.Ticket, error) {
			if id != 5 {
				return nil, domain.ErrTicketNotFound
			}
			return &domain.Ticket{ID: 5, Title: "t", Status: domain.StatusTodo}, nil
		},
	}
	handler := NewTicketHandler(stub)

	c, rec := newContext(http.MethodGet, "/tickets/5", "", alice)
	if err := handler.Get(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(rec.Body.Bytes(), &ticket); err != nil || ticket.ID != 5 {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}

	c, _ = newContext(http.MethodGet, "/tickets/6", "", alice)
	if err := handler.Get(withID(c, "6")); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}

	for _, bad := range []string{"abc", "0", "-1"} {
		c, _ = newContext(http.MethodGet, "/tickets/"+bad, "", alice)
		if err := handler.Get(withID(c, bad)); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("id %q: expected ErrValidation, got %v", bad, err)
		}
	}
}

func TestTicketHandler_Create(t *testing.T) {
	var got ports.CreateTicketInput
	stub := &stubTicketService{
		createFn: func(ctx context.Context, in ports.CreateTicketInput) (*domain.Ticket, error) {
			got = in
			return &domain.Ticket{ID: 1, Title: in.Title, Status: domain.StatusTodo, OwnerID: in.OwnerID}, nil
		},
	}

	c, rec := newContext(http.MethodPost, "/tickets", `{"title":"Write docs","ownerId":"3"}`, alice)
	if err := NewTicketHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Title != "Write docs" || got.Status != "" || got.ActorID != alice.UserID {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.OwnerID == nil || *got.OwnerID != 3 {
		t.Fatalf("expected owner 3 from string id, got %v", got.OwnerID)
	}
}

func TestTicketHandler_Create_Validation(t *testing.T) {
	stub := &stubTicketService{
		createFn: func(ctx context.Context, in ports.CreateTicketInput) (*domain.Ticket, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	for _, body := range []string{`{"description":"no title"}`, `{"title":"x","status":"bogus"}`, `{"title":"x","ownerId":"abc"}`} {
		c, _ := newContext(http.MethodPost, "/tickets", body, alice)
		if err := NewTicketHandler(stub).Create(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestTicketHandler_Update_OwnerPresence(t *testing.T) {
	cases := []struct {
		body     string
		ownerSet bool
		ownerID  *int64
	}{
		{`{"status":"Done"}`, false, nil},
		{`{"ownerId":null}`, true, nil},
		{`{"ownerId":4}`, true, int64Ptr(4)},
	}
	for _, tc := range cases {
		var got ports.UpdateTicketInput
		stub := &stubTicketService{
			updateFn: func(ctx context.Context, id int64, in ports.UpdateTicketInput) (*domain.Ticket, error) {
				got = in
				return &domain.Ticket{ID: id}, nil
			},
		}
		c, rec := newContext(http.MethodPatch, "/tickets/9", tc.body, alice)
		if err := NewTicketHandler(stub).Update(withID(c, "9")); err != nil {
			t.Fatalf("%s: handler error: %v", tc.body, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tc.body, rec.Code)
		}
		if got.OwnerSet != tc.ownerSet {
			t.Fatalf("%s: expected OwnerSet=%v, got %v", tc.body, tc.ownerSet, got.OwnerSet)
		}
		if (got.OwnerID == nil) != (tc.ownerID == nil) || (got.OwnerID != nil && *got.OwnerID != *tc.ownerID) {
			t.Fatalf("%s: unexpected OwnerID %v", tc.body, got.OwnerID)
		}
	}
}

func TestTicketHandler_Update_OnlyStatus(t *testing.T) {
	var got ports.UpdateTicketInput
	stub := &stubTicketService{
		updateFn: func(ctx context.Context, id int64, in ports.UpdateTicketInput) (*domain.Ticket, error) {
			got = in
			return &domain.Ticket{ID: id}, nil
		},
	}
	c, _ := newContext(http.MethodPut, "/tickets/9", `{"status":"Done"}`, alice)
	if err := NewTicketHandler(stub).Update(withID(c, "9")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Status == nil || *got.Status != "Done" {
		t.Fatalf("expected status Done, got %v", got.Status)
	}
	if got.Title != nil || got.Description != nil || got.OwnerSet {
		t.Fatalf("expected other fields untouched, got %+v", got)
	}
}

func TestTicketHandler_Delete(t *testing.T) {
	deleted := map[int64]bool{}
	stub := &stubTicketService{
		deleteFn: func(ctx context.Context, id, actorID int64) error {
			if deleted[id] {
				return domain.ErrTicketNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	handler := NewTicketHandler(stub)

	c, rec := newContext(http.MethodDelete, "/tickets/3", "", alice)
	if err := handler.Delete(withID(c, "3")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newContext(http.MethodDelete, "/tickets/3", "", alice)
	if err := handler.Delete(withID(c, "3")); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound on second delete, got %v", err)
	}
}
