package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

// UserService manages accounts on behalf of authenticated callers.
type UserService struct {
	users  ports.UserRepository
	hasher *PasswordHasher
	audit  ports.AuditLog
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher *PasswordHasher, audit ports.AuditLog, logger zerolog.Logger) *UserService {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &UserService{users: users, hasher: hasher, audit: audit, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context, query string) ([]*domain.User, error) {
	users, err := s.users.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user, err := createAccount(ctx, s.users, s.hasher, input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.audit, s.logger, domain.AuditEvent{
		Entity:   "user",
		EntityID: user.ID,
		Action:   domain.AuditUserCreated,
		ActorID:  input.ActorID,
		Changes:  map[string]any{"username": user.Username, "email": user.Email},
	})
	return user, nil
}

// UpdateUser applies a partial patch. A new username or email must not
// collide with another account; a new password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, id int64, input ports.UpdateUserInput) (*domain.User, error) {
	var changes ports.UserChanges
	audited := map[string]any{}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		changes.Username = &username
		audited["username"] = username
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		changes.Email = &email
		audited["email"] = email
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = &hash
		audited["password"] = "changed"
	}

	if changes.Empty() {
		return s.users.FindByID(ctx, id)
	}

	if changes.Username != nil || changes.Email != nil {
		taken, err := s.users.ExistsConflict(ctx, deref(changes.Username), deref(changes.Email), id)
		if err != nil {
			return nil, fmt.Errorf("check account uniqueness: %w", err)
		}
		if taken {
			return nil, domain.ErrUserExists
		}
	}

	user, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	recordAudit(ctx, s.audit, s.logger, domain.AuditEvent{
		Entity:   "user",
		EntityID: id,
		Action:   domain.AuditUserUpdated,
		ActorID:  input.ActorID,
		Changes:  audited,
	})
	return user, nil
}

// DeleteUser removes the account. Tickets it owned become unassigned.
func (s *UserService) DeleteUser(ctx context.Context, id, actorID int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	recordAudit(ctx, s.audit, s.logger, domain.AuditEvent{
		Entity:   "user",
		EntityID: id,
		Action:   domain.AuditUserDeleted,
		ActorID:  actorID,
	})

	s.logger.Info().Int64("user_id", id).Int64("actor_id", actorID).Msg("user deleted")
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
