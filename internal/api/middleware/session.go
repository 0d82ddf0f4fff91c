package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/service"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

// UserKey is the echo context key under which the authenticated user is stored.
const UserKey = "user"

// UserResolver turns a verified user ID into a full user record.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (*domain.User, error)
}

// Session validates the session cookie and injects the authenticated user
// into the request context. Requests without a valid, unexpired token for an
// existing user never reach the wrapped handler.
func Session(tokens *service.TokenManager, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			user, err := users.Resolve(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
				}
				return err
			}

			c.Set(UserKey, user)
			return next(c)
		}
	}
}
