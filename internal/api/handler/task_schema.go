package handler

// --- Request types ---
//
// Due dates travel as strings (RFC 3339 or YYYY-MM-DD); the task service owns
// parsing and the not-in-the-past rule. Pointer fields on the update request
// distinguish "absent" from "empty" so partial updates work.

type createTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"omitempty,taskstatus"`
	DueDate     string `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,taskstatus"`
}
