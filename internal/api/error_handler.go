package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/pkg/logger"
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
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	log = logger.Ctx(c.Request().Context(), log)

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Validation messages carry the offending field and are safe to echo.
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownRole):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnsupportedProvider):
		return http.StatusBadRequest, err.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrSessionInvalid):
		return http.StatusUnauthorized, "session is invalid or expired"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	case errors.Is(err, domain.ErrProfileUnavailable):
		return http.StatusConflict, "profile unavailable"
	case errors.Is(err, domain.ErrLevelNotFound):
		return http.StatusNotFound, "level not found"
	case errors.Is(err, domain.ErrLevelLocked):
		return http.StatusForbidden, "level is locked"
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusPaymentRequired, "insufficient points"
	case errors.Is(err, domain.ErrAlreadyOwned):
		return http.StatusConflict, "item already owned"
	case errors.Is(err, domain.ErrNotOwned):
		return http.StatusUnprocessableEntity, "item not owned"
	case errors.Is(err, domain.ErrBiomeMismatch):
		return http.StatusUnprocessableEntity, "item does not belong to this biome"
	case errors.Is(err, domain.ErrInvalidProfile):
		log.Error().Err(err).Str("path", c.Path()).Msg("stored profile failed validation")
		return http.StatusInternalServerError, "internal server error"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
