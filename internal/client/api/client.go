// Package api is the HTTP client for the task-tracker backend. It owns the
// wire concerns the state layer should never see: the response envelope, the
// session cookie jar, and the split between application errors and transport
// failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// User is the outward view of an account returned by the server.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Task mirrors the server's task representation.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskInput carries the fields for a new task. DueDate is a raw date string;
// the server parses and validates it.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

// TaskPatch is a partial update; nil fields are omitted from the request.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// Error is an application-level failure reported by the server. Transport
// failures and cancellations are returned as-is, never wrapped in Error, so
// callers can tell the two apart.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// envelope is the uniform response body:
// {"success":bool,"message":string,"data":any|null,"error":string|null}.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *string         `json:"error"`
}

// Client talks to one backend deployment. The cookie jar carries the session
// token between calls, mirroring a browser.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client for the given base URL (no trailing slash).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		base: baseURL,
		http: &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/user/register", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var user User
	if err := c.do(ctx, http.MethodPost, "/user/login", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/logout", nil, nil)
}

func (c *Client) ForgotPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/user/forgot-password", body, nil)
}

// CurrentUser resolves the session owner. A signed-out session reports an
// *Error with Status 401.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id, status string) (*Task, error) {
	body := map[string]string{"status": status}
	var task Task
	if err := c.do(ctx, http.MethodPut, "/tasks/updateStatus/"+id, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// do performs one request/response cycle. Application failures come back as
// *Error; anything else (dial errors, context cancellation) is returned
// unchanged.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return &Error{Status: res.StatusCode, Message: fmt.Sprintf("invalid response (status %d)", res.StatusCode)}
	}

	if !env.Success || res.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if env.Error != nil && *env.Error != "" {
			msg = *env.Error
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", res.StatusCode)
		}
		return &Error{Status: res.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Status: res.StatusCode, Message: "invalid response payload"}
		}
	}
	return nil
}
