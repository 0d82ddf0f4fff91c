package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Session middleware.
// Its presence proves the gate ran; a protected handler reached without it is
// a wiring bug, rejected with 401 rather than a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}
