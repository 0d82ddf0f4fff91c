package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts the user and returns it with the store-assigned ID.
	// Unique-index violations surface as domain.ErrEmailExists or
	// domain.ErrUsernameExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
