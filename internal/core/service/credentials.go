package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/kanbanhq/ticket-board/internal/core/domain"
	"github.com/kanbanhq/ticket-board/internal/core/ports"
)

var emailValidator = validator.New()

const (
	minPasswordLength = 6
	maxUsernameLength = 64
	maxEmailLength    = 255
)

func validateUsername(username string) error {
	switch {
	case username == "":
		return domain.Invalid("username", "username is required")
	case len(username) > maxUsernameLength:
		return domain.Invalid("username", fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	}
	return nil
}

func validateEmail(email string) error {
	switch {
	case email == "":
		return domain.Invalid("email", "email is required")
	case utf8.RuneCountInString(email) > maxEmailLength:
		return domain.Invalid("email", fmt.Sprintf("email must be at most %d characters", maxEmailLength))
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return domain.Invalid("email", "email must be a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.Invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	return nil
}

// createAccount validates, checks uniqueness, hashes and persists a new user.
// Shared by self-registration and the /users endpoints.
func createAccount(ctx context.Context, repo ports.UserRepository, hasher *PasswordHasher, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	for _, err := range []error{validateUsername(username), validateEmail(email), validatePassword(password)} {
		if err != nil {
			return nil, err
		}
	}

	taken, err := repo.ExistsConflict(ctx, username, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check account uniqueness: %w", err)
	}
	if taken {
		return nil, domain.ErrUserExists
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Username: username, Email: email, PasswordHash: hash}
	if err := repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
