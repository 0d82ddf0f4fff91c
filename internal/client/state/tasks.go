package state

import (
	"context"
	"sync"

	"github.com/taskhive/task-tracker/internal/client/api"
)

// TaskContext caches the current user's tasks. It refetches whenever the
// authenticated user changes; a sign-out clears the cache without a network
// call. Mutations hit the server first and mirror into the cache only on
// success — a failed call leaves the cache exactly as it was.
type TaskContext struct {
	api *api.Client

	mu      sync.Mutex
	tasks   []api.Task
	loading bool
	lastErr string

	// gen identifies the newest refresh; responses from superseded fetches
	// compare stale and are dropped.
	gen    int
	cancel context.CancelFunc
}

// NewTaskContext builds a TaskContext wired to auth-state changes.
func NewTaskContext(client *api.Client, auth *AuthContext) *TaskContext {
	t := &TaskContext{api: client}
	auth.Subscribe(t.onAuthChange)
	return t
}

// onAuthChange supersedes any in-flight fetch, then either clears the cache
// (signed out) or refetches for the new user.
func (t *TaskContext) onAuthChange(user *api.User) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++

	if user == nil {
		t.tasks = nil
		t.loading = false
		t.lastErr = ""
		t.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	gen := t.gen
	t.loading = true
	t.lastErr = ""
	t.mu.Unlock()

	go t.refresh(ctx, gen)
}

// refresh fetches the task list and applies it unless a newer fetch has been
// started in the meantime.
func (t *TaskContext) refresh(ctx context.Context, gen int) {
	tasks, err := t.api.Tasks(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || ctx.Err() != nil {
		return
	}

	t.loading = false
	if err != nil {
		t.lastErr = errMessage(err)
		return
	}
	t.tasks = tasks
}

// Add creates a task on the server and appends it to the cache.
func (t *TaskContext) Add(ctx context.Context, in api.TaskInput) (*api.Task, error) {
	t.begin()
	task, err := t.api.CreateTask(ctx, in)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		t.lastErr = errMessage(err)
		return nil, err
	}
	t.tasks = append(t.tasks, *task)
	return task, nil
}

// Update changes task fields on the server and mirrors the server's copy into
// the cache.
func (t *TaskContext) Update(ctx context.Context, id string, patch api.TaskPatch) (*api.Task, error) {
	t.begin()
	task, err := t.api.UpdateTask(ctx, id, patch)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		t.lastErr = errMessage(err)
		return nil, err
	}
	t.replace(*task)
	return task, nil
}

// SetStatus is the narrow status-only mutation.
func (t *TaskContext) SetStatus(ctx context.Context, id, status string) (*api.Task, error) {
	t.begin()
	task, err := t.api.UpdateTaskStatus(ctx, id, status)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		t.lastErr = errMessage(err)
		return nil, err
	}
	t.replace(*task)
	return task, nil
}

// Delete removes the task on the server, then from the cache.
func (t *TaskContext) Delete(ctx context.Context, id string) error {
	t.begin()
	err := t.api.DeleteTask(ctx, id)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading = false
	if err != nil {
		t.lastErr = errMessage(err)
		return err
	}
	kept := t.tasks[:0]
	for _, task := range t.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	t.tasks = kept
	return nil
}

// Tasks returns a copy of the cached task list.
func (t *TaskContext) Tasks() []api.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]api.Task, len(t.tasks))
	copy(out, t.tasks)
	return out
}

func (t *TaskContext) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

// Err returns the message of the last failed operation, if any.
func (t *TaskContext) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func (t *TaskContext) begin() {
	t.mu.Lock()
	t.loading = true
	t.lastErr = ""
	t.mu.Unlock()
}

// replace swaps the cached task with the same ID; unknown IDs are appended.
func (t *TaskContext) replace(task api.Task) {
	for i := range t.tasks {
		if t.tasks[i].ID == task.ID {
			t.tasks[i] = task
			return
		}
	}
	t.tasks = append(t.tasks, task)
}
