package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

// DashboardService combines the derivations shown on the landing page.
type DashboardService struct {
	levels       ports.LevelService
	progress     ports.ProgressRepository
	city         ports.CityRepository
	maxFootprint float64
	logger       zerolog.Logger
}

func NewDashboardService(levels ports.LevelService, progress ports.ProgressRepository, city ports.CityRepository, maxFootprint float64, logger zerolog.Logger) *DashboardService {
	if maxFootprint <= 0 {
		maxFootprint = domain.DefaultMaxFootprint
	}
	return &DashboardService{levels: levels, progress: progress, city: city, maxFootprint: maxFootprint, logger: logger}
}

func (s *DashboardService) Dashboard(ctx context.Context, profile domain.Profile) (*ports.Dashboard, error) {
	footprint, err := s.progress.CarbonFootprint(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("carbon footprint: %w", err)
	}
	carbon, err := domain.EvaluateCarbon(footprint, s.maxFootprint)
	if err != nil {
		return nil, err
	}

	board, err := s.levels.Board(ctx, profile)
	if err != nil {
		return nil, err
	}

	points, err := s.city.Balance(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	d := &ports.Dashboard{
		Profile:  profile,
		Carbon:   carbon,
		Progress: board.Summary,
		Points:   points,
	}
	if tier, ok := profile.EffectiveDifficulty(); ok {
		d.Difficulty = NewDifficultyView(tier)
	}
	return d, nil
}

// NewDifficultyView attaches the display strings to a tier.
func NewDifficultyView(tier domain.Difficulty) *ports.DifficultyView {
	return &ports.DifficultyView{Tier: tier, Label: tier.Label(), AgeRange: tier.AgeRange()}
}
