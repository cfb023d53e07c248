package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorMessage struct {
	Message string `json:"message"`
}

type StatusMessage struct {
	Message string `json:"message"`
}

func (a *App) er(c echo.Context, statusCode int) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: http.StatusText(statusCode),
	})
}

func (a *App) erMsg(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, &ErrorMessage{
		Message: message,
	})
}
