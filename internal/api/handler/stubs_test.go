package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kanbanhq/ticket-board/internal/api/middleware"
	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, identifier, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, identifier, password)
}

type stubTicketService struct {
	listFn   func(ctx context.Context, in ports.ListTicketsInput) ([]*domain.Ticket, error)
	getFn    func(ctx context.Context, id int64) (*domain.Ticket, error)
	createFn func(ctx context.Context, in ports.CreateTicketInput) (*domain.Ticket, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateTicketInput) (*domain.Ticket, error)
	deleteFn func(ctx context.Context, id, actorID int64) error
}

func (s *stubTicketService) ListTickets(ctx context.Context, in ports.ListTicketsInput) ([]*domain.Ticket, error) {
	return s.listFn(ctx, in)
}

func (s *stubTicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.getFn(ctx, id)
}

func (s *stubTicketService) CreateTicket(ctx context.Context, in ports.CreateTicketInput) (*domain.Ticket, error) {
	return s.createFn(ctx, in)
}

func (s *stubTicketService) UpdateTicket(ctx context.Context, id int64, in ports.UpdateTicketInput) (*domain.Ticket, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubTicketService) DeleteTicket(ctx context.Context, id, actorID int64) error {
	return s.deleteFn(ctx, id, actorID)
}

type stubUserService struct {
	listFn   func(ctx context.Context, query string) ([]*domain.User, error)
	getFn    func(ctx context.Context, id int64) (*domain.User, error)
	createFn func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, id, actorID int64) error
}

func (s *stubUserService) ListUsers(ctx context.Context, query string) ([]*domain.User, error) {
	return s.listFn(ctx, query)
}

func (s *stubUserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, id, actorID int64) error {
	return s.deleteFn(ctx, id, actorID)
}

// newContext builds an echo context for a JSON request. A non-nil claims
// value simulates a request that passed the Auth gate.
func newContext(method, target, body string, claims *domain.UserClaims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ClaimsKey, claims)
	}
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

var alice = &domain.UserClaims{UserID: 1, Username: "alice", Email: "alice@example.com"}

func int64Ptr(v int64) *int64 { return &v }
