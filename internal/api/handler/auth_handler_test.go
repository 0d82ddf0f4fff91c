package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/domain"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	resetErr    error
	lastEmail   string
}

func (s *stubAuthService) Register(_ context.Context, username, email, _ string) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &domain.User{ID: "u1", Username: username, Email: email}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, _ string) (*domain.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return &domain.User{ID: "u1", Username: "alice", Email: email}, "signed-token", nil
}

func (s *stubAuthService) ResetPassword(_ context.Context, email, _ string) error {
	s.lastEmail = email
	return s.resetErr
}

func (s *stubAuthService) CurrentUser(_ context.Context, userID string) (*domain.User, error) {
	return &domain.User{ID: userID}, nil
}

func newAuthTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/register",
		`{"username":"alice","email":"alice@x.com","password":"Abcdef1!"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "User created" || env.Error != nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	data, _ := env.Data.(map[string]any)
	if data["username"] != "alice" {
		t.Fatalf("unexpected data: %+v", env.Data)
	}
	if _, exposed := data["password"]; exposed {
		t.Fatalf("password leaked in response")
	}
}

func TestAuthHandler_Register_BadUsername(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/register",
		`{"username":"1x","email":"alice@x.com","password":"Abcdef1!"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Success || env.Error == nil {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrEmailExists}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/register",
		`{"username":"alice","email":"alice@x.com","password":"Abcdef1!"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"Abcdef1!"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "Login success" {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	cookies := rec.Result().Cookies()
	var session *http.Cookie
	for _, ck := range cookies {
		if ck.Name == middleware.CookieName {
			session = ck
		}
	}
	if session == nil {
		t.Fatalf("no session cookie set")
	}
	if session.Value != "signed-token" {
		t.Fatalf("unexpected cookie value: %q", session.Value)
	}
	if !session.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if session.Secure {
		t.Fatalf("secure flag set without TLS posture")
	}
}

func TestAuthHandler_Login_SecureCookieInProduction(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{Secure: true, TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"Abcdef1!"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no cookie set")
	}
	if !cookies[0].Secure || cookies[0].SameSite != http.SameSiteNoneMode {
		t.Fatalf("expected Secure + SameSite=None, got %+v", cookies[0])
	}
}

func TestAuthHandler_Login_WrongCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/login",
		`{"email":"alice@x.com","password":"wrongpass"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("cookie set on failed login")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodDelete, "/user/logout", "")
	c.Set(middleware.UserKey, &domain.User{ID: "u1", Username: "alice"})

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no cookie set")
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", cookies[0])
	}
}

func TestAuthHandler_Me_RequiresSession(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieConfig{TTL: time.Hour})
	c, _ := newAuthTestContext(t, http.MethodGet, "/user/me", "")

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_ForgotPassword_UnknownEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{resetErr: domain.ErrUserNotFound}, CookieConfig{TTL: time.Hour})
	c, rec := newAuthTestContext(t, http.MethodPost, "/user/forgot-password",
		`{"email":"ghost@x.com","newPassword":"newpass1"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
