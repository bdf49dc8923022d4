package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"automation-hub/backend/internal/descriptor"
	"automation-hub/backend/internal/repository"
	"automation-hub/backend/internal/services"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Service:   "automation-hub",
		Version:   "1.0.0",
	})
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// problem writes an RFC 7807 Problem Details JSON error response
func problem(c echo.Context, status int, title, detail string) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
	return c.JSON(status, ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// serviceError maps domain errors onto HTTP problem responses. Anything
// unrecognized is a 500 with the detail passed through.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return problem(c, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, services.ErrMalformedDocument),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrSourceIDMissing):
		return problem(c, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, services.ErrNoInstanceConfigured):
		return problem(c, http.StatusUnprocessableEntity, "No Engine Instance", err.Error())
	case errors.Is(err, services.ErrDefinitionExists),
		errors.Is(err, descriptor.ErrConcurrentModification):
		return problem(c, http.StatusConflict, "Conflict", err.Error())
	default:
		return problem(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}
