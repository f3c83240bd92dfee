package ports

import (
	"context"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
)

// UserChanges carries the columns a partial user update touches. Nil fields
// are left as they are.
type UserChanges struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether no column would change.
func (c UserChanges) Empty() bool {
	return c.Username == nil && c.Email == nil && c.PasswordHash == nil
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts user and fills in its generated ID and timestamps.
	// Returns domain.ErrUserExists on a unique-index violation.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByLogin matches identifier case-insensitively against both
	// username and email.
	FindByLogin(ctx context.Context, identifier string) (*domain.User, error)
	// ExistsConflict reports whether another user (id != excludeID) already
	// holds username or email, compared case-insensitively. Empty values are
	// not checked.
	ExistsConflict(ctx context.Context, username, email string, excludeID int64) (bool, error)
	// List returns users ordered by id; query filters on a case-insensitive
	// substring of username or email.
	List(ctx context.Context, query string) ([]*domain.User, error)
	Update(ctx context.Context, id int64, changes UserChanges) (*domain.User, error)
	// Delete removes the user and nulls the owner of every ticket they held.
	Delete(ctx context.Context, id int64) error
}
