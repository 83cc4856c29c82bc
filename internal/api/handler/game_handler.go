package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

// GameHandler serves the profile-dependent views: dashboard, levels and city.
// Every route is mounted behind RequireProfile.
type GameHandler struct {
	levels    ports.LevelService
	city      ports.CityService
	dashboard ports.DashboardService
}

func NewGameHandler(levels ports.LevelService, city ports.CityService, dashboard ports.DashboardService) *GameHandler {
	return &GameHandler{levels: levels, city: city, dashboard: dashboard}
}

// GET /v1/dashboard
func (h *GameHandler) Dashboard(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	d, err := h.dashboard.Dashboard(c.Request().Context(), profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// GET /v1/levels
func (h *GameHandler) Levels(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	board, err := h.levels.Board(c.Request().Context(), profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board)
}

// POST /v1/levels/:id/start
func (h *GameHandler) StartLevel(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	lvl, err := h.levels.Start(c.Request().Context(), profile, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lvl)
}

// GET /v1/city/catalog
func (h *GameHandler) Catalog(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	cat, err := h.city.Catalog(c.Request().Context(), profile)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// GET /v1/city/biomes/:biome
func (h *GameHandler) Biome(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	biome, err := domain.ParseBiome(c.Param("biome"))
	if err != nil {
		return err
	}
	items, err := h.city.Placed(c.Request().Context(), profile, biome)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"biome": biome, "items": items})
}

// POST /v1/city/items/:id/purchase
func (h *GameHandler) Purchase(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	res, err := h.city.Purchase(c.Request().Context(), profile, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// POST /v1/city/items/:id/place
func (h *GameHandler) Place(c echo.Context) error {
	profile, err := ctxProfile(c)
	if err != nil {
		return err
	}
	var req placeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	biome, err := domain.ParseBiome(req.Biome)
	if err != nil {
		return err
	}
	item, err := h.city.Place(c.Request().Context(), profile, c.Param("id"), biome)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}
