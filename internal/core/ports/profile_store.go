package ports

import (
	"context"

	"github.com/greenpath/platform/internal/core/domain"
)

// ProfileStore is the profile persistence collaborator.
type ProfileStore interface {
	// FetchProfile returns domain.ErrProfileNotFound when no profile exists.
	// Any other error is a store failure and must not be read as absence.
	FetchProfile(ctx context.Context, id string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, req domain.NewProfile) (*domain.Profile, error)
}

// CreateGuard records that a profile create was attempted for a session.
// Acquire reports true only for the first caller per session.
type CreateGuard interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
}
