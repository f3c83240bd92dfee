package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

func testHasher() *PasswordHasher {
	return NewPasswordHasher(bcrypt.MinCost)
}

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return domain.ErrUserExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.Email, identifier) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsConflict(_ context.Context, username, email string, excludeID int64) (bool, error) {
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		if username != "" && strings.EqualFold(u.Username, username) {
			return true, nil
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context, query string) ([]*domain.User, error) {
	q := strings.ToLower(query)
	var out []*domain.User
	for _, u := range r.users {
		if q == "" || strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, changes ports.UserChanges) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if changes.Username != nil {
		u.Username = *changes.Username
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	u.UpdatedAt = time.Now().UTC()
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubTicketRepo struct {
	tickets map[int64]*domain.Ticket
	nextID  int64
	users   *stubUserRepo
}

func newStubTicketRepo(users *stubUserRepo) *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[int64]*domain.Ticket), nextID: 1, users: users}
}

func (r *stubTicketRepo) clone(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.Owner = nil
	if t.OwnerID != nil {
		if u, ok := r.users.users[*t.OwnerID]; ok {
			summary := u.Summary()
			clone.Owner = &summary
		}
	}
	return &clone
}

func (r *stubTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	stored := *t
	r.tickets[t.ID] = &stored
	return nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id int64) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return r.clone(t), nil
}

func (r *stubTicketRepo) List(_ context.Context, filter ports.TicketFilter) ([]*domain.Ticket, error) {
	var out []*domain.Ticket
	for _, t := range r.tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.OwnerID != nil && (t.OwnerID == nil || *t.OwnerID != *filter.OwnerID) {
			continue
		}
		out = append(out, r.clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTicketRepo) Update(_ context.Context, id int64, changes ports.TicketChanges) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	if changes.Title != nil {
		t.Title = *changes.Title
	}
	if changes.Description != nil {
		t.Description = *changes.Description
	}
	if changes.Status != nil {
		t.Status = *changes.Status
	}
	if changes.OwnerSet {
		t.OwnerID = changes.OwnerID
	}
	t.UpdatedAt = time.Now().UTC()
	return r.clone(t), nil
}

func (r *stubTicketRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tickets[id]; !ok {
		return domain.ErrTicketNotFound
	}
	delete(r.tickets, id)
	return nil
}

type recordingAudit struct {
	events []domain.AuditEvent
	err    error
}

func (a *recordingAudit) Record(_ context.Context, ev domain.AuditEvent) error {
	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, ev)
	return nil
}

func (a *recordingAudit) actions() []domain.AuditAction {
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

type countingLimiter struct {
	max      int
	failures map[string]int
}

func newCountingLimiter(max int) *countingLimiter {
	return &countingLimiter{max: max, failures: make(map[string]int)}
}

func (l *countingLimiter) Blocked(_ context.Context, id string) (bool, error) {
	return l.failures[id] >= l.max, nil
}

func (l *countingLimiter) RecordFailure(_ context.Context, id string) error {
	l.failures[id]++
	return nil
}

func (l *countingLimiter) Reset(_ context.Context, id string) error {
	delete(l.failures, id)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
