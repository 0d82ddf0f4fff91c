package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/service"
)

type stubResolver struct {
	users map[string]*domain.User
}

func (r *stubResolver) Resolve(_ context.Context, userID string) (*domain.User, error) {
	if u, ok := r.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func newSessionContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSession_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice", Email: "alice@example.com"},
	}}

	token, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	c, rec := newSessionContext(t, token)

	called := false
	handler := Session(tokens, resolver)(func(c echo.Context) error {
		called = true
		user, _ := c.Get(UserKey).(*domain.User)
		if user == nil || user.ID != "u1" {
			t.Fatalf("user not attached to context: %+v", user)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSession_RejectsBeforeHandler(t *testing.T) {
	tokens := service.NewTokenManager("secret", time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{
		"u1": {ID: "u1", Username: "alice"},
	}}

	expired, err := service.NewTokenManager("secret", -time.Minute).Issue("u1")
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	tampered, err := service.NewTokenManager("other-secret", time.Hour).Issue("u1")
	if err != nil {
		t.Fatalf("issue tampered token: %v", err)
	}
	orphan, err := tokens.Issue("gone")
	if err != nil {
		t.Fatalf("issue orphan token: %v", err)
	}

	cases := []struct {
		name   string
		cookie string
	}{
		{"no cookie", ""},
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"wrong signature", tampered},
		{"user deleted after issuance", orphan},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newSessionContext(t, tc.cookie)

			handler := Session(tokens, resolver)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			err := handler(c)
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", he.Code)
			}
		})
	}
}
