package handler

import "github.com/labstack/echo/v4"

// Envelope is the uniform response body for every endpoint:
// {"success":bool,"message":string,"data":any|null,"error":string|null}.
type Envelope struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

func respondOK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

func respondError(c echo.Context, status int, message string, err error) error {
	detail := err.Error()
	return c.JSON(status, Envelope{Success: false, Message: message, Error: &detail})
}
