package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/kanbanhq/ticket-board/internal/api/handler"
	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
	"github.com/kanbanhq/ticket-board/internal/core/service"
)

type fakeAuth struct{ issuer *service.TokenIssuer }

func (f fakeAuth) Register(_ context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if in.Username == "taken" {
		return nil, domain.ErrUserExists
	}
	user := &domain.User{ID: 10, Username: in.Username, Email: in.Email}
	token, exp, err := f.issuer.Issue(user)
	return &ports.AuthResult{Token: token, ExpiresAt: exp, User: user}, err
}

func (f fakeAuth) Login(_ context.Context, identifier, _ string) (*ports.AuthResult, error) {
	switch identifier {
	case "locked":
		return nil, domain.ErrTooManyAttempts
	case "alice":
		user := &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}
		token, exp, err := f.issuer.Issue(user)
		return &ports.AuthResult{Token: token, ExpiresAt: exp, User: user}, err
	}
	return nil, domain.ErrInvalidCredentials
}

type fakeTickets struct{}

func (fakeTickets) ListTickets(context.Context, ports.ListTicketsInput) ([]*domain.Ticket, error) {
	return []*domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusTodo}}, nil
}

func (fakeTickets) GetTicket(_ context.Context, id int64) (*domain.Ticket, error) {
	switch id {
	case 1:
		return &domain.Ticket{ID: 1, Title: "a", Status: domain.StatusTodo}, nil
	case 500:
		return nil, fmt.Errorf("find ticket: %w", errors.New("connection reset"))
	}
	return nil, fmt.Errorf("find ticket %d: %w", id, domain.ErrTicketNotFound)
}

func (fakeTickets) CreateTicket(_ context.Context, in ports.CreateTicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.Invalid("title", "title must not be empty")
	}
	return &domain.Ticket{ID: 2, Title: in.Title, Status: domain.StatusTodo}, nil
}

func (fakeTickets) UpdateTicket(_ context.Context, id int64, _ ports.UpdateTicketInput) (*domain.Ticket, error) {
	return &domain.Ticket{ID: id}, nil
}

func (fakeTickets) DeleteTicket(_ context.Context, id, _ int64) error {
	if id != 1 {
		return domain.ErrTicketNotFound
	}
	return nil
}

type fakeUsers struct{}

func (fakeUsers) ListUsers(context.Context, string) ([]*domain.User, error) { return nil, nil }
func (fakeUsers) GetUser(context.Context, int64) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (fakeUsers) CreateUser(context.Context, ports.CreateUserInput) (*domain.User, error) {
	return nil, domain.ErrUserExists
}
func (fakeUsers) UpdateUser(_ context.Context, id int64, _ ports.UpdateUserInput) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}
func (fakeUsers) DeleteUser(context.Context, int64, int64) error { return nil }

func newTestRouter(t *testing.T, exposeDetails bool) (*echo.Echo, string) {
	t.Helper()
	issuer, err := service.NewTokenIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	token, _, _ := issuer.Issue(&domain.User{ID: 1, Username: "alice", Email: "alice@example.com"})

	e := NewRouter(Deps{
		Log:                zerolog.Nop(),
		ExposeErrorDetails: exposeDetails,
		Tokens:             issuer,
		Auth:               fakeAuth{issuer: issuer},
		Tickets:            fakeTickets{},
		Users:              fakeUsers{},
		Checks: []handler.DependencyCheck{
			{Name: "postgres", Ping: func(context.Context) error { return nil }},
		},
		MetricsRegisterer: prometheus.NewRegistry(),
	})
	return e, token
}

func do(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestRouter_StatusMapping(t *testing.T) {
	e, token := newTestRouter(t, false)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"register", http.MethodPost, "/auth/register", `{"username":"bob","email":"bob@example.com","password":"secret1"}`, "", http.StatusCreated},
		{"register conflict", http.MethodPost, "/auth/register", `{"username":"taken","email":"t@example.com","password":"secret1"}`, "", http.StatusConflict},
		{"register invalid", http.MethodPost, "/auth/register", `{"username":"bob"}`, "", http.StatusBadRequest},
		{"login", http.MethodPost, "/auth/login", `{"username":"alice","password":"pw"}`, "", http.StatusOK},
		{"login bad", http.MethodPost, "/auth/login", `{"username":"mallory","password":"pw"}`, "", http.StatusUnauthorized},
		{"login throttled", http.MethodPost, "/auth/login", `{"username":"locked","password":"pw"}`, "", http.StatusTooManyRequests},
		{"me", http.MethodGet, "/auth/me", "", token, http.StatusOK},
		{"me anonymous", http.MethodGet, "/auth/me", "", "", http.StatusUnauthorized},
		{"tickets anonymous", http.MethodGet, "/tickets", "", "", http.StatusUnauthorized},
		{"tickets garbage token", http.MethodGet, "/tickets", "", "not-a-jwt", http.StatusUnauthorized},
		{"tickets", http.MethodGet, "/tickets", "", token, http.StatusOK},
		{"ticket", http.MethodGet, "/tickets/1", "", token, http.StatusOK},
		{"ticket missing", http.MethodGet, "/tickets/2", "", token, http.StatusNotFound},
		{"ticket bad id", http.MethodGet, "/tickets/x", "", token, http.StatusBadRequest},
		{"ticket create", http.MethodPost, "/tickets", `{"title":"t"}`, token, http.StatusCreated},
		{"ticket create blank", http.MethodPost, "/tickets", `{"title":"  "}`, token, http.StatusBadRequest},
		{"ticket put", http.MethodPut, "/tickets/1", `{"status":"Done"}`, token, http.StatusOK},
		{"ticket patch", http.MethodPatch, "/tickets/1", `{"status":"Done"}`, token, http.StatusOK},
		{"ticket delete", http.MethodDelete, "/tickets/1", "", token, http.StatusNoContent},
		{"ticket delete missing", http.MethodDelete, "/tickets/2", "", token, http.StatusNotFound},
		{"users", http.MethodGet, "/users", "", token, http.StatusOK},
		{"user missing", http.MethodGet, "/users/5", "", token, http.StatusNotFound},
		{"user conflict", http.MethodPost, "/users", `{"username":"a","email":"a@example.com","password":"secret1"}`, token, http.StatusConflict},
		{"user delete", http.MethodDelete, "/users/5", "", token, http.StatusNoContent},
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"ready", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(e, tc.method, tc.path, tc.body, tc.token)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_ErrorBodies(t *testing.T) {
	e, token := newTestRouter(t, false)

	rec := do(e, http.MethodPost, "/tickets", `{"title":"  "}`, token)
	body := decodeError(t, rec)
	if body.Field != "title" || body.Error == "" {
		t.Fatalf("expected title validation error, got %+v", body)
	}

	rec = do(e, http.MethodGet, "/tickets/2", "", token)
	if body := decodeError(t, rec); body.Error != "ticket not found" {
		t.Fatalf("unexpected not-found body: %+v", body)
	}

	rec = do(e, http.MethodGet, "/tickets/500", "", token)
	body = decodeError(t, rec)
	if rec.Code != http.StatusInternalServerError || body.Error != "internal server error" || body.Detail != "" {
		t.Fatalf("expected opaque 500 in production, got %d %+v", rec.Code, body)
	}
}

func TestRouter_ExposesDetailsOutsideProduction(t *testing.T) {
	e, token := newTestRouter(t, true)

	rec := do(e, http.MethodGet, "/tickets/500", "", token)
	body := decodeError(t, rec)
	if rec.Code != http.StatusInternalServerError || !strings.Contains(body.Detail, "connection reset") {
		t.Fatalf("expected detail with cause, got %d %+v", rec.Code, body)
	}
}

func TestRouter_LoginReturnsUsableToken(t *testing.T) {
	e, _ := newTestRouter(t, false)

	rec := do(e, http.MethodPost, "/auth/login", `{"email":"alice","password":"pw"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("missing token: %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/auth/me", "", resp.Token)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("me with fresh token failed: %d %s", rec.Code, rec.Body.String())
	}
}
