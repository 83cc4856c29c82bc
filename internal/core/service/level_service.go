package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/greenpath/platform/internal/api/metrics"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

type LevelService struct {
	levels   ports.LevelRepository
	progress ports.ProgressRepository
	logger   zerolog.Logger
}

func NewLevelService(levels ports.LevelRepository, progress ports.ProgressRepository, logger zerolog.Logger) *LevelService {
	return &LevelService{levels: levels, progress: progress, logger: logger}
}

// Board loads the curriculum and the profile's completions and recomputes
// every lock flag. Nothing about locks is read from storage.
func (s *LevelService) Board(ctx context.Context, profile domain.Profile) (*ports.LevelBoard, error) {
	levels, err := s.levels.ListLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	done, err := s.progress.CompletedLevels(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("completed levels: %w", err)
	}

	resolved := domain.ResolveLocks(domain.MarkCompleted(levels, done))
	return &ports.LevelBoard{Levels: resolved, Summary: domain.Summarize(resolved)}, nil
}

// Start rejects locked levels before recording anything.
func (s *LevelService) Start(ctx context.Context, profile domain.Profile, levelID string) (*domain.Level, error) {
	board, err := s.Board(ctx, profile)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range board.Levels {
		if board.Levels[i].ID == levelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrLevelNotFound
	}
	level := &board.Levels[idx]
	if level.Locked {
		metrics.LevelStartsTotal.WithLabelValues("locked").Inc()
		// the first level is never locked, so idx > 0 here
		prev := board.Levels[idx-1]
		return nil, fmt.Errorf("%w: complete %q (level %d) first", domain.ErrLevelLocked, prev.Title, prev.Position)
	}

	if err := s.progress.StartLevel(ctx, profile.ID, level.ID); err != nil {
		return nil, fmt.Errorf("start level: %w", err)
	}
	metrics.LevelStartsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("user_id", profile.ID).Str("level_id", level.ID).Int("position", level.Position).Msg("level started")
	return level, nil
}
