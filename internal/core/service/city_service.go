package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/api/metrics"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

type CityService struct {
	repo   ports.CityRepository
	logger zerolog.Logger
}

func NewCityService(repo ports.CityRepository, logger zerolog.Logger) *CityService {
	return &CityService{repo: repo, logger: logger}
}

func (s *CityService) Catalog(ctx context.Context, profile domain.Profile) (*ports.Catalog, error) {
	items, balance, err := s.load(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return &ports.Catalog{Balance: balance, Entries: domain.PurchasableCatalog(items, balance)}, nil
}

func (s *CityService) Placed(ctx context.Context, profile domain.Profile, biome domain.Biome) ([]domain.CityItem, error) {
	items, err := s.repo.Inventory(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	return domain.PlacedItems(items, biome), nil
}

// Purchase checks ownership and affordability locally; the store is only
// called with a request the current balance covers.
func (s *CityService) Purchase(ctx context.Context, profile domain.Profile, itemID string) (*ports.PurchaseResult, error) {
	items, balance, err := s.load(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	item, err := findItem(items, itemID)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckPurchase(item, balance); err != nil {
		metrics.PurchasesTotal.WithLabelValues(purchaseResult(err)).Inc()
		return nil, err
	}

	left, err := s.repo.Purchase(ctx, profile.ID, item)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(purchaseResult(err)).Inc()
		if errors.Is(err, domain.ErrInsufficientPoints) || errors.Is(err, domain.ErrAlreadyOwned) {
			return nil, err
		}
		return nil, fmt.Errorf("purchase: %w", err)
	}
	metrics.PurchasesTotal.WithLabelValues("ok").Inc()

	item.Owned = true
	s.logger.Info().Str("user_id", profile.ID).Str("item_id", item.ID).Int("cost", item.Cost).Int("balance", left).Msg("item purchased")
	return &ports.PurchaseResult{Item: item, Balance: left}, nil
}

func (s *CityService) Place(ctx context.Context, profile domain.Profile, itemID string, biome domain.Biome) (*domain.CityItem, error) {
	items, err := s.repo.Inventory(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}
	item, err := findItem(items, itemID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckPlacement(item, biome); err != nil {
		return nil, err
	}
	if err := s.repo.Place(ctx, profile.ID, item.ID, biome); err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}
	metrics.PlacementsTotal.WithLabelValues(string(biome)).Inc()

	item.Placed = true
	return &item, nil
}

func (s *CityService) load(ctx context.Context, userID string) ([]domain.CityItem, int, error) {
	items, err := s.repo.Inventory(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("inventory: %w", err)
	}
	balance, err := s.repo.Balance(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("balance: %w", err)
	}
	return items, balance, nil
}

func findItem(items []domain.CityItem, id string) (domain.CityItem, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.CityItem{}, domain.ErrItemNotFound
}

func purchaseResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, domain.ErrAlreadyOwned):
		return "already_owned"
	}
	return "error"
}
