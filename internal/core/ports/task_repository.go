package ports

import (
	"context"
	"time"

	"github.com/taskhive/task-tracker/internal/core/domain"
)

// TaskUpdate carries the fields of a partial task update. Nil pointers mean
// "leave unchanged".
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	DueDate     *time.Time
}

// TaskRepository defines persistence operations for tasks. Every method that
// touches an existing task filters by both task ID and owner ID in a single
// atomic store operation, so a task owned by another user behaves exactly
// like a missing one.
type TaskRepository interface {
	// ListByUser returns the user's tasks ordered by due date ascending,
	// tasks without a due date first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, taskID, userID string, upd TaskUpdate) (*domain.Task, error)
	Delete(ctx context.Context, taskID, userID string) error
}
