package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"minutesapi/internal/repository"
)

// ErrInvalidCredentials is returned when the email is unknown or the password
// does not match. Callers get the same error either way.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService verifies user credentials against the user directory.
type AuthService interface {
	// Login returns the user's opaque identifier when the email/password
	// pair matches a directory entry.
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	users repository.UserRepository
}

// NewAuthService constructs an AuthService over the user directory.
func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return user.ID, nil
}
