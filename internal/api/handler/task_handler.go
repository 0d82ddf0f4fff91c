package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/metrics"
	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations. All routes sit
// behind the Session middleware; the acting user comes from the context,
// never from the payload.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /tasks.
//
// @Summary      List the current user's tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respondOK(c, http.StatusOK, "Tasks fetched successfully", tasks)
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "Task fields"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to create task", errors.New("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		metrics.TaskMutationsTotal.WithLabelValues("create", "invalid").Inc()
		return respondError(c, http.StatusBadRequest, "Failed to create task", err)
	}

	task, err := h.service.Create(c.Request().Context(), user.ID, ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return h.mutationError(c, "create", "Failed to create task", err)
	}

	metrics.TaskMutationsTotal.WithLabelValues("create", "success").Inc()
	return respondOK(c, http.StatusCreated, "Task created", task)
}

// Update handles PUT /tasks/:id.
//
// @Summary      Update task fields
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to update task", errors.New("invalid payload"))
	}

	task, err := h.service.UpdateFields(c.Request().Context(), c.Param("id"), user.ID, ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return h.mutationError(c, "update", "Failed to update task", err)
	}

	metrics.TaskMutationsTotal.WithLabelValues("update", "success").Inc()
	return respondOK(c, http.StatusOK, "Task updated", task)
}

// UpdateStatus handles PUT /tasks/updateStatus/:id.
//
// @Summary      Update task status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Task ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /tasks/updateStatus/{id} [put]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to update task status", errors.New("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		metrics.TaskMutationsTotal.WithLabelValues("update_status", "invalid").Inc()
		return respondError(c, http.StatusBadRequest, "Failed to update task status", err)
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), user.ID, req.Status)
	if err != nil {
		return h.mutationError(c, "update_status", "Failed to update task status", err)
	}

	metrics.TaskMutationsTotal.WithLabelValues("update_status", "success").Inc()
	return respondOK(c, http.StatusOK, "Task status updated", task)
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return h.mutationError(c, "delete", "Failed to delete task", err)
	}

	metrics.TaskMutationsTotal.WithLabelValues("delete", "success").Inc()
	return respondOK(c, http.StatusOK, "Task deleted", nil)
}

// mutationError maps service errors to envelope responses and records the
// outcome. Unknown errors propagate to the central error handler.
func (h *TaskHandler) mutationError(c echo.Context, op, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		metrics.TaskMutationsTotal.WithLabelValues(op, "not_found").Inc()
		return respondError(c, http.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrValidation):
		metrics.TaskMutationsTotal.WithLabelValues(op, "invalid").Inc()
		return respondError(c, http.StatusBadRequest, message, err)
	}
	metrics.TaskMutationsTotal.WithLabelValues(op, "error").Inc()
	return err
}
