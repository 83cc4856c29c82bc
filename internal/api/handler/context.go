package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/api/middleware"
	"github.com/greenpath/platform/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(middleware.SessionKey).(*domain.Session)
	if sess == nil || sess.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}

// ctxProfile extracts the Ready profile injected by RequireProfile. Its
// absence means the route was mounted without the middleware, or the
// resolver lost the profile in between; both read as "not ready".
func ctxProfile(c echo.Context) (domain.Profile, error) {
	p, _ := c.Get(middleware.ProfileKey).(*domain.Profile)
	if p == nil {
		return domain.Profile{}, domain.ErrProfileUnavailable
	}
	return *p, nil
}
