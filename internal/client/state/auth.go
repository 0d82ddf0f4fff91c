// Package state holds the client-side caches behind the UI: the authenticated
// user and the task list. Each context has an explicit lifecycle (Init, then
// operations, subscribers notified on change) instead of ambient globals.
package state

import (
	"context"
	"errors"
	"sync"

	"github.com/taskhive/task-tracker/internal/client/api"
)

// AuthContext caches the authenticated user for the lifetime of the client
// session. All accessors are safe for concurrent use.
type AuthContext struct {
	api *api.Client

	mu          sync.Mutex
	user        *api.User
	loading     bool
	lastErr     string
	initialized bool
	subs        []func(*api.User)
}

func NewAuthContext(client *api.Client) *AuthContext {
	return &AuthContext{api: client}
}

// Subscribe registers fn to run after every change of the authenticated user.
// Subscribers are called outside the context lock.
func (a *AuthContext) Subscribe(fn func(*api.User)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subs = append(a.subs, fn)
}

// Init performs the initial "who am I" check. An unauthenticated response is
// the normal signed-out outcome, not an error. If ctx is cancelled before the
// response lands, no state is touched: the caller tore the context down and a
// late update must not race a newer one.
func (a *AuthContext) Init(ctx context.Context) {
	a.mu.Lock()
	a.loading = true
	a.mu.Unlock()

	user, err := a.api.CurrentUser(ctx)

	if ctx.Err() != nil {
		return
	}

	a.mu.Lock()
	a.loading = false
	a.initialized = true
	a.lastErr = ""
	if err != nil {
		user = nil
	}
	changed := !sameUser(a.user, user)
	a.user = user
	a.mu.Unlock()

	if changed {
		a.notify(user)
	}
}

// Login authenticates and, on success, publishes the new user to subscribers.
func (a *AuthContext) Login(ctx context.Context, email, password string) (*api.User, error) {
	a.begin()
	user, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.finish(err)
		return nil, err
	}

	a.mu.Lock()
	a.loading = false
	a.user = user
	a.mu.Unlock()

	a.notify(user)
	return user, nil
}

// Register creates an account. It does not sign the user in; the original
// flow sends them to the login page afterwards.
func (a *AuthContext) Register(ctx context.Context, username, email, password string) (*api.User, error) {
	a.begin()
	user, err := a.api.Register(ctx, username, email, password)
	a.finish(err)
	return user, err
}

// ResetPassword rotates the password for the given email.
func (a *AuthContext) ResetPassword(ctx context.Context, email, newPassword string) error {
	a.begin()
	err := a.api.ForgotPassword(ctx, email, newPassword)
	a.finish(err)
	return err
}

// Logout discards the session and publishes the signed-out state.
func (a *AuthContext) Logout(ctx context.Context) error {
	a.begin()
	if err := a.api.Logout(ctx); err != nil {
		a.finish(err)
		return err
	}

	a.mu.Lock()
	a.loading = false
	a.user = nil
	a.mu.Unlock()

	a.notify(nil)
	return nil
}

// User returns the currently authenticated user, or nil.
func (a *AuthContext) User() *api.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user
}

func (a *AuthContext) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// Err returns the message of the last failed operation, if any.
func (a *AuthContext) Err() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Initialized reports whether the initial identity check has completed.
func (a *AuthContext) Initialized() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.initialized
}

func (a *AuthContext) begin() {
	a.mu.Lock()
	a.loading = true
	a.lastErr = ""
	a.mu.Unlock()
}

func (a *AuthContext) finish(err error) {
	a.mu.Lock()
	a.loading = false
	a.lastErr = errMessage(err)
	a.mu.Unlock()
}

func (a *AuthContext) notify(user *api.User) {
	a.mu.Lock()
	subs := make([]func(*api.User), len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}

func sameUser(a, b *api.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

// errMessage extracts a user-facing message. Cancellation is not a
// user-visible failure and maps to the empty string.
func errMessage(err error) string {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ""
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
