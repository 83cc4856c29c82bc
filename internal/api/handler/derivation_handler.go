package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/service"
)

// DerivationHandler exposes the pure classifiers. No authentication.
type DerivationHandler struct {
	maxFootprint float64
}

func NewDerivationHandler(maxFootprint float64) *DerivationHandler {
	if maxFootprint <= 0 {
		maxFootprint = domain.DefaultMaxFootprint
	}
	return &DerivationHandler{maxFootprint: maxFootprint}
}

// GET /v1/difficulty?age=N
func (h *DerivationHandler) Difficulty(c echo.Context) error {
	var age int
	if err := echo.QueryParamsBinder(c).MustInt("age", &age).BindError(); err != nil {
		return fmt.Errorf("%w: age must be an integer", domain.ErrInvalidArgument)
	}
	if age < 0 {
		return fmt.Errorf("%w: age must not be negative", domain.ErrInvalidArgument)
	}
	return c.JSON(http.StatusOK, difficultyResponse{
		Age:            age,
		DifficultyView: service.NewDifficultyView(domain.ClassifyAge(age)),
	})
}

// GET /v1/carbon?current=X&max=Y
// max defaults to the configured full scale.
func (h *DerivationHandler) Carbon(c echo.Context) error {
	var current float64
	full := h.maxFootprint
	if err := echo.QueryParamsBinder(c).
		MustFloat64("current", &current).
		Float64("max", &full).
		BindError(); err != nil {
		return fmt.Errorf("%w: current and max must be numbers", domain.ErrInvalidArgument)
	}

	status, err := domain.EvaluateCarbon(current, full)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}
