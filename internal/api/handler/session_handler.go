package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/api/middleware"
)

// SessionHandler exposes the resolver state of the caller's session.
type SessionHandler struct {
	resolver middleware.ProfileResolver
}

func NewSessionHandler(resolver middleware.ProfileResolver) *SessionHandler {
	return &SessionHandler{resolver: resolver}
}

// Get returns the current snapshot. Clients poll it after sign-in until the
// state is ready or error.
//
//	GET /v1/session
func (h *SessionHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	snap := h.resolver.Ensure(c.Request().Context(), *sess)
	return c.JSON(http.StatusOK, sessionStateResponse{
		User:     userShort{ID: sess.UserID, Email: sess.Email, Provider: sess.Provider},
		Snapshot: snap,
	})
}
