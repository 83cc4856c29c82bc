package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

// AdminHandler serves teacher and admin lookups. Mounted behind RBAC.
type AdminHandler struct {
	profiles ports.ProfileStore
}

func NewAdminHandler(profiles ports.ProfileStore) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// GET /v1/admin/profiles/:id
func (h *AdminHandler) Profile(c echo.Context) error {
	p, err := h.profiles.FetchProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if err := domain.ValidateProfile(p); err != nil {
		return fmt.Errorf("profile %s: %w", c.Param("id"), err)
	}
	return c.JSON(http.StatusOK, p)
}
