package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
)

// Context keys set by this package.
const (
	SessionKey = "session"
	ProfileKey = "profile"
)

// SessionReader resolves a bearer token to a live session.
type SessionReader interface {
	CurrentSession(ctx context.Context, token string) (*domain.Session, error)
}

// Auth validates the bearer token against the identity provider and injects
// the session into context.
func Auth(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			sess, err := sessions.CurrentSession(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrSessionInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				return err
			}

			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}
