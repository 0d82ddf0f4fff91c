package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// AuthService covers registration, login and session-user resolution.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	// Login returns the authenticated user and a fresh session token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// ResetPassword overwrites the password of the account matching email.
	// The caller is not authenticated beyond knowledge of the address.
	ResetPassword(ctx context.Context, email, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
