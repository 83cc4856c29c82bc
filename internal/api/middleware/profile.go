package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/session"
)

// ProfileResolver returns the resolution state of a live session.
type ProfileResolver interface {
	Ensure(ctx context.Context, sess domain.Session) session.Snapshot
}

type errorBody struct {
	Error string `json:"error"`
}

// RequireProfile gates profile-dependent routes on a Ready session. It must
// run after Auth. While the profile is still resolving the request is
// answered with 202 and the snapshot, so clients can poll.
func RequireProfile(resolver ProfileResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := c.Get(SessionKey).(*domain.Session)
			if !ok || sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			snap := resolver.Ensure(c.Request().Context(), *sess)
			switch {
			case snap.Ready():
				c.Set(ProfileKey, snap.Profile)
				return next(c)
			case snap.State == session.StateError:
				return c.JSON(http.StatusConflict, errorBody{Error: snap.Message})
			default:
				return c.JSON(http.StatusAccepted, session.Snapshot{State: session.StateResolvingProfile, SessionID: sess.ID})
			}
		}
	}
}
