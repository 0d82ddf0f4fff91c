package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/api/handler"
	"github.com/taskhive/task-tracker/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope {success,message,data,error} for every
//     failure, including those raised by middleware before a handler ran.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, detail := resolveError(err, log, c)
		_ = c.JSON(code, handler.Envelope{Success: false, Message: msg, Error: &detail})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (code int, msg, detail string) {
	// Echo's own errors: bind failures, 404 from the router, and the 401s
	// raised by the Session middleware.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = "Request failed"
		if he.Code == http.StatusUnauthorized {
			msg = "Authentication failed"
		}
		return he.Code, msg, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors that escaped handler-level mapping.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Request failed", err.Error()
	case errors.Is(err, domain.ErrTaskNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "Request failed", err.Error()
	case errors.Is(err, domain.ErrEmailExists), errors.Is(err, domain.ErrUsernameExists):
		return http.StatusConflict, "Request failed", err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, "Authentication failed", err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Request failed", "internal server error"
}
