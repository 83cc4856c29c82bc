package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/infrastructure/config"
	mongodb "github.com/greenpath/platform/internal/infrastructure/db/mongo"
	"github.com/greenpath/platform/pkg/logger"
)

var (
	creditUser   string
	creditPoints int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the level curriculum and the city catalog",
	Long: `Upserts the built-in levels and city items by id, so running it twice is harmless.

Example:
  greenpath seed
  greenpath seed --credit-user 6f1c... --points 500`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&creditUser, "credit-user", "", "user id whose wallet is credited")
	seedCmd.Flags().IntVar(&creditPoints, "points", 0, "points credited to --credit-user")
}

// seedLevels is the launch curriculum, ordered by position.
func seedLevels() []domain.Level {
	return []domain.Level{
		{ID: "climate-change-basics", Position: 1, Title: "Climate Change Basics", Topic: "climate", Difficulty: domain.DifficultyEasy,
			Description: "Learn about greenhouse gases and global warming", QuestionCount: 8, PointsReward: 100},
		{ID: "renewable-energy", Position: 2, Title: "Renewable Energy", Topic: "energy", Difficulty: domain.DifficultyMedium,
			Description: "Discover solar, wind, and clean energy sources", QuestionCount: 12, PointsReward: 150},
		{ID: "ocean-conservation", Position: 3, Title: "Ocean Conservation", Topic: "oceans", Difficulty: domain.DifficultyMedium,
			Description: "Protect marine life and reduce ocean pollution", QuestionCount: 15, PointsReward: 200},
		{ID: "biodiversity-crisis", Position: 4, Title: "Biodiversity Crisis", Topic: "biodiversity", Difficulty: domain.DifficultyHard,
			Description: "Understanding species extinction and habitat loss", QuestionCount: 18, PointsReward: 250},
		{ID: "carbon-economics", Position: 5, Title: "Carbon Economics", Topic: "economics", Difficulty: domain.DifficultyExpert,
			Description: "Advanced carbon offset and trading mechanisms", QuestionCount: 25, PointsReward: 400},
	}
}

func seedItems() []domain.CityItem {
	return []domain.CityItem{
		{ID: "oak-tree", Name: "Oak Tree", Category: domain.CategoryPlant, Biome: domain.BiomeForest, Cost: 100,
			Description: "Strong tree that absorbs CO2 and provides oxygen"},
		{ID: "tiger", Name: "Tiger", Category: domain.CategoryAnimal, Biome: domain.BiomeForest, Cost: 300,
			Description: "Endangered big cat that needs forest protection"},
		{ID: "solar-panel", Name: "Solar Panel", Category: domain.CategoryStructure, Biome: domain.BiomeUrban, Cost: 200,
			Description: "Clean energy source that reduces carbon footprint"},
		{ID: "coral-reef", Name: "Coral Reef", Category: domain.CategoryPlant, Biome: domain.BiomeOcean, Cost: 250,
			Description: "Marine ecosystem that supports ocean biodiversity"},
		{ID: "dolphin", Name: "Dolphin", Category: domain.CategoryAnimal, Biome: domain.BiomeOcean, Cost: 400,
			Description: "Intelligent marine mammal indicator of ocean health"},
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if (creditUser == "") != (creditPoints == 0) {
		return errors.New("--credit-user and --points must be given together")
	}
	if creditPoints < 0 {
		return errors.New("--points must be positive")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Development(), Service: "greenpath", Version: version})

	client, db, err := mongodb.Connect(ctx, mongoConfig(cfg.Mongo))
	if err != nil {
		return err
	}
	defer func() { _ = mongodb.Disconnect(client, cfg.Mongo.Timeout) }()

	levels := mongodb.NewLevelRepository(db)
	city := mongodb.NewCityRepository(db)

	for _, l := range seedLevels() {
		if err := levels.Upsert(ctx, l); err != nil {
			return fmt.Errorf("seed level %s: %w", l.ID, err)
		}
	}
	for _, item := range seedItems() {
		if err := city.UpsertItem(ctx, item); err != nil {
			return fmt.Errorf("seed item %s: %w", item.ID, err)
		}
	}
	log.Info().Int("levels", len(seedLevels())).Int("items", len(seedItems())).Msg("catalog seeded")

	if creditUser != "" {
		if err := city.Credit(ctx, creditUser, creditPoints); err != nil {
			return fmt.Errorf("credit %s: %w", creditUser, err)
		}
		log.Info().Str("user_id", creditUser).Int("points", creditPoints).Msg("wallet credited")
	}
	return nil
}
