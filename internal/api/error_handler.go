package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/petcare/clinic-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router) and guard denials.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts, try again later"
	case domain.IsTokenFailure(err):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "insufficient permissions"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrIdentityExists):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, "passwords do not match"
	case errors.Is(err, domain.ErrInvalidInput):
		log.Debug().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("invalid input")
		return http.StatusUnprocessableEntity, domain.ErrInvalidInput.Error()
	case errors.Is(err, domain.ErrPetNotFound),
		errors.Is(err, domain.ErrVaccineNotFound),
		errors.Is(err, domain.ErrConsultationNotFound),
		errors.Is(err, domain.ErrPrescriptionNotFound):
		return http.StatusNotFound, notFoundMessage(err)
	case errors.Is(err, domain.ErrPrescriptionClosed):
		return http.StatusConflict, "prescription already completed"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		domain.ErrPetNotFound,
		domain.ErrVaccineNotFound,
		domain.ErrConsultationNotFound,
		domain.ErrPrescriptionNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "not found"
}
