package ports

import (
	"context"

	"github.com/greenpath/platform/internal/core/domain"
)

// LevelRepository reads the curriculum.
type LevelRepository interface {
	ListLevels(ctx context.Context) ([]domain.Level, error)
	FindLevel(ctx context.Context, id string) (*domain.Level, error)
}

// ProgressRepository reads what external progress jobs have recorded for a user.
type ProgressRepository interface {
	// CompletedLevels returns the set of completed level IDs.
	CompletedLevels(ctx context.Context, userID string) (map[string]bool, error)
	// CarbonFootprint returns the user's footprint, zero when none is recorded.
	CarbonFootprint(ctx context.Context, userID string) (float64, error)
	// StartLevel records that the user opened a level.
	StartLevel(ctx context.Context, userID, levelID string) error
}

// CityRepository stores the item catalog and each user's inventory and balance.
type CityRepository interface {
	// Inventory returns the full catalog with Owned and Placed set for userID.
	Inventory(ctx context.Context, userID string) ([]domain.CityItem, error)
	Balance(ctx context.Context, userID string) (int, error)
	// Purchase atomically debits item.Cost and records ownership. It returns
	// domain.ErrInsufficientPoints if the balance changed underneath and
	// domain.ErrAlreadyOwned on a duplicate.
	Purchase(ctx context.Context, userID string, item domain.CityItem) (int, error)
	Place(ctx context.Context, userID, itemID string, biome domain.Biome) error
}
