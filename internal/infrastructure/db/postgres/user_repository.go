package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

// UserRepository implements ports.UserRepository on top of gorm.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := userModel{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return userWriteError(err)
	}

	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, userLookupError(err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m userModel
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", identifier, identifier).
		First(&m).Error
	if err != nil {
		return nil, userLookupError(err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) ExistsConflict(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	var (
		conds []string
		args  []any
	)
	if username != "" {
		conds = append(conds, "LOWER(username) = LOWER(?)")
		args = append(args, username)
	}
	if email != "" {
		conds = append(conds, "LOWER(email) = LOWER(?)")
		args = append(args, email)
	}
	if len(conds) == 0 {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Model(&userModel{}).Where(strings.Join(conds, " OR "), args...)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context, query string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Order("id ASC")
	if query != "" {
		pattern := "%" + escapeLike(query) + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var rows []userModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes ports.UserChanges) (*domain.User, error) {
	values := map[string]any{"updated_at": time.Now().UTC()}
	if changes.Username != nil {
		values["username"] = *changes.Username
	}
	if changes.Email != nil {
		values["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		values["password_hash"] = *changes.PasswordHash
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return nil, userWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}

	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, userLookupError(err)
	}
	return m.toDomain(), nil
}

// Delete unassigns the user's tickets and removes the account in one
// transaction. The owner_id foreign key also nulls on delete.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&ticketModel{}).
			Where("owner_id = ?", id).
			Updates(map[string]any{"owner_id": nil, "updated_at": time.Now().UTC()}).Error
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}

		res := tx.Delete(&userModel{}, id)
		if res.Error != nil {
			return fmt.Errorf("db error: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func userWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrUserExists
	case isValueTooLong(err):
		return domain.Invalid("", "username or email is too long")
	}
	return fmt.Errorf("db error: %w", err)
}

func userLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
