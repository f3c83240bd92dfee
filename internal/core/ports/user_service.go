package ports

import (
	"context"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// CreateUserInput is the DTO for creating an account through /users.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	ActorID  int64
}

// UpdateUserInput is a partial patch; nil fields are untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	ActorID  int64
}

// UserService defines account management operations.
type UserService interface {
	ListUsers(ctx context.Context, query string) ([]*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id, actorID int64) error
}
