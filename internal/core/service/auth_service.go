package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenIssuer
	hasher  *PasswordHasher
	limiter ports.LoginLimiter
	audit   ports.AuditLog
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenIssuer,
	hasher *PasswordHasher,
	limiter ports.LoginLimiter,
	audit ports.AuditLog,
	log zerolog.Logger,
) *AuthService {
	if limiter == nil {
		limiter = NopLoginLimiter{}
	}
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		hasher:  hasher,
		limiter: limiter,
		audit:   audit,
		log:     log,
	}
}

// Register creates an account and signs the new user in.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	user, err := createAccount(ctx, s.users, s.hasher, in.Username, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.log, domain.AuditEvent{
		Entity:   "user",
		EntityID: user.ID,
		Action:   domain.AuditUserCreated,
		ActorID:  user.ID,
		Changes:  map[string]any{"username": user.Username, "email": user.Email},
	})

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Login exchanges a username or email plus password for a token. Unknown
// accounts and wrong passwords fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.Invalid("credentials", "username or email and password are required")
	}
	key := strings.ToLower(identifier)

	blocked, err := s.limiter.Blocked(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter check failed, continuing")
	} else if blocked {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByLogin(ctx, identifier)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.hasher.burn(password)
		s.recordFailure(ctx, key)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Matches(user.PasswordHash, password) {
		s.recordFailure(ctx, key)
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}
