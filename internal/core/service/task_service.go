package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// dueDateLayouts are the accepted wire formats for due dates.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// TaskService implements the owner-scoped task use cases. Ownership is not a
// separate check: every repository call carries the acting user's ID, so a
// foreign task is indistinguishable from a missing one.
type TaskService struct {
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log}
}

func (s *TaskService) ListForUser(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) Create(ctx context.Context, userID string, in ports.CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}

	status := domain.StatusNotStarted
	if in.Status != "" {
		status = domain.TaskStatus(in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status must be NOT_STARTED, IN_PROGRESS or COMPLETED", domain.ErrValidation)
		}
	}

	var due *time.Time
	if in.DueDate != "" {
		parsed, err := parseDueDate(in.DueDate)
		if err != nil {
			return nil, err
		}
		due = parsed
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		DueDate:     due,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", created.ID).Str("user_id", userID).Msg("task created")
	return created, nil
}

// UpdateFields applies a partial update; only fields present in the input are
// validated and changed.
func (s *TaskService) UpdateFields(ctx context.Context, taskID, userID string, in ports.UpdateTaskInput) (*domain.Task, error) {
	var upd ports.TaskUpdate

	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		upd.Title = in.Title
	}
	if in.Description != nil {
		if *in.Description == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", domain.ErrValidation)
		}
		upd.Description = in.Description
	}
	if in.Status != nil {
		status := domain.TaskStatus(*in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status must be NOT_STARTED, IN_PROGRESS or COMPLETED", domain.ErrValidation)
		}
		upd.Status = &status
	}
	if in.DueDate != nil && *in.DueDate != "" {
		parsed, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, err
		}
		upd.DueDate = parsed
	}

	task, err := s.tasks.Update(ctx, taskID, userID, upd)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Str("user_id", userID).Msg("task updated")
	return task, nil
}

// UpdateStatus is the narrow status-only mutation. Any status is reachable
// from any other.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, userID, status string) (*domain.Task, error) {
	next := domain.TaskStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: status must be NOT_STARTED, IN_PROGRESS or COMPLETED", domain.ErrValidation)
	}

	task, err := s.tasks.Update(ctx, taskID, userID, ports.TaskUpdate{Status: &next})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Str("status", status).Msg("task status updated")
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID, userID string) error {
	if err := s.tasks.Delete(ctx, taskID, userID); err != nil {
		return err
	}
	s.log.Info().Str("task_id", taskID).Str("user_id", userID).Msg("task deleted")
	return nil
}

// parseDueDate accepts RFC 3339 timestamps and plain calendar dates. The due
// date may be today but not earlier.
func parseDueDate(raw string) (*time.Time, error) {
	var parsed time.Time
	var err error
	for _, layout := range dueDateLayouts {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: due date %q is not a valid date", domain.ErrValidation, raw)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if parsed.Before(today) {
		return nil, fmt.Errorf("%w: due date cannot be in the past", domain.ErrValidation)
	}

	parsed = parsed.UTC()
	return &parsed, nil
}
