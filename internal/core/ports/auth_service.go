package ports

import (
	"context"
	"time"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// RegisterInput is the DTO for account creation.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
}

// TokenVerifier turns a bearer token back into claims. It must not do I/O.
type TokenVerifier interface {
	Verify(token string) (*domain.UserClaims, error)
}

// TokenIssuer mints and verifies session tokens.
type TokenIssuer interface {
	TokenVerifier
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
}

// LoginLimiter throttles repeated failed logins per identifier.
type LoginLimiter interface {
	// Blocked reports whether identifier has exhausted its failure budget.
	Blocked(ctx context.Context, identifier string) (bool, error)
	RecordFailure(ctx context.Context, identifier string) error
	Reset(ctx context.Context, identifier string) error
}
