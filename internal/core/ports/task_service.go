package ports

import (
	"context"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// CreateTaskInput carries the data for a new task. DueDate is the raw string
// from the transport layer; the service parses and validates it.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	DueDate     string
}

// UpdateTaskInput carries a partial update. Nil pointers mean "unchanged".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	DueDate     *string
}

// TaskService defines the owner-scoped task use cases.
type TaskService interface {
	ListForUser(ctx context.Context, userID string) ([]*domain.Task, error)
	Create(ctx context.Context, userID string, in CreateTaskInput) (*domain.Task, error)
	UpdateFields(ctx context.Context, taskID, userID string, in UpdateTaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, taskID, userID, status string) (*domain.Task, error)
	Delete(ctx context.Context, taskID, userID string) error
}
