package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"satshop-api/internal/apperr"
)

// respondError maps an application error kind to an HTTP response. The
// user-safe message goes to the client; the underlying cause stays in logs.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.Auth:
		status = http.StatusUnauthorized
	case apperr.Authorization:
		status = http.StatusForbidden
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.RateLimit:
		status = http.StatusTooManyRequests
	case apperr.Backend, apperr.ExternalService:
		status = http.StatusInternalServerError
	}
	return c.JSON(status, echo.Map{"error": apperr.MessageOf(err)})
}
