package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/metrics"
	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

// CookieConfig controls the session cookie attributes. Secure toggles the
// Secure flag and switches SameSite from Lax to None, which a TLS deployment
// needs for a cross-site SPA origin.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// userResponse is the outward view of a user; the password hash never leaves
// the service layer.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /user/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Registration failed", errors.New("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return respondError(c, http.StatusBadRequest, "Registration failed", err)
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailExists), errors.Is(err, domain.ErrUsernameExists):
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			return respondError(c, http.StatusConflict, "Registration failed", err)
		case errors.Is(err, domain.ErrValidation):
			metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
			return respondError(c, http.StatusBadRequest, "Registration failed", err)
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return respondOK(c, http.StatusCreated, "User created", toUserResponse(user))
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /user/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Login failed", errors.New("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Login failed", err)
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			return respondError(c, http.StatusNotFound, "Login failed", err)
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return respondError(c, http.StatusUnauthorized, "Login failed", err)
		case errors.Is(err, domain.ErrValidation):
			return respondError(c, http.StatusBadRequest, "Login failed", err)
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	c.SetCookie(h.sessionCookie(token, h.cookies.TTL))
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respondOK(c, http.StatusOK, "Login success", toUserResponse(user))
}

// Logout clears the session cookie. Tokens are stateless, so there is no
// server-side session to tear down; the cookie is all there is.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /user/logout [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return respondOK(c, http.StatusOK, "Logout success", nil)
}

// ForgotPassword overwrites the password of the account matching the given
// email. The requester is not authenticated on this route; anyone who knows
// the address can rotate the password.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Email and new password"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /user/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to change password", errors.New("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Failed to change password", err)
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return respondError(c, http.StatusNotFound, "Failed to change password", err)
		case errors.Is(err, domain.ErrValidation):
			return respondError(c, http.StatusBadRequest, "Failed to change password", err)
		}
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	return respondOK(c, http.StatusOK, "Password changed successfully", nil)
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /user/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return respondOK(c, http.StatusOK, "User fetched successfully", toUserResponse(user))
}

func (h *AuthHandler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
	}
	if h.cookies.Secure {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
