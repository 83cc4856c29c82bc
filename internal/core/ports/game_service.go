package ports

import (
	"context"

	"github.com/greenpath/platform/internal/core/domain"
)

// LevelBoard is the resolved level list with its progress header.
type LevelBoard struct {
	Levels  []domain.Level         `json:"levels"`
	Summary domain.ProgressSummary `json:"summary"`
}

// LevelService serves the curriculum to a ready profile.
type LevelService interface {
	Board(ctx context.Context, profile domain.Profile) (*LevelBoard, error)
	Start(ctx context.Context, profile domain.Profile, levelID string) (*domain.Level, error)
}

// Catalog is the shop view for one user.
type Catalog struct {
	Balance int                   `json:"balance"`
	Entries []domain.CatalogEntry `json:"items"`
}

// PurchaseResult reports the bought item and the balance left.
type PurchaseResult struct {
	Item    domain.CityItem `json:"item"`
	Balance int             `json:"balance"`
}

// CityService serves the eco-city shop and placement.
type CityService interface {
	Catalog(ctx context.Context, profile domain.Profile) (*Catalog, error)
	Placed(ctx context.Context, profile domain.Profile, biome domain.Biome) ([]domain.CityItem, error)
	Purchase(ctx context.Context, profile domain.Profile, itemID string) (*PurchaseResult, error)
	Place(ctx context.Context, profile domain.Profile, itemID string, biome domain.Biome) (*domain.CityItem, error)
}

// Dashboard is the landing view of a ready profile.
type Dashboard struct {
	Profile    domain.Profile         `json:"profile"`
	Difficulty *DifficultyView        `json:"difficulty,omitempty"`
	Carbon     domain.CarbonStatus    `json:"carbon"`
	Progress   domain.ProgressSummary `json:"progress"`
	Points     int                    `json:"points"`
}

// DifficultyView is a tier with its display strings.
type DifficultyView struct {
	Tier     domain.Difficulty `json:"tier"`
	Label    string            `json:"label"`
	AgeRange string            `json:"age_range"`
}

// DashboardService assembles the dashboard.
type DashboardService interface {
	Dashboard(ctx context.Context, profile domain.Profile) (*Dashboard, error)
}
