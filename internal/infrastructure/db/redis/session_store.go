package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenpath/platform/internal/core/domain"
)

const (
	// createGuardTTL outlives any realistic session establishment.
	createGuardTTL   = 24 * time.Hour
	minRevocationTTL = time.Second
)

// SessionStore keeps short-lived session state in Redis.
// Key formats:
//
//	session:revoked:<session_id>
//	session:create:<session_id>
//	oauth:state:<state>
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Revoke marks a session as signed out until it would have expired anyway.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}
	if err := s.client.Set(ctx, revokedKey(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session was signed out.
func (s *SessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Acquire claims the single profile-create attempt of a session. Only the
// first caller across all replicas gets true.
func (s *SessionStore) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := s.client.SetNX(ctx, createKey(sessionID), s.now().UTC().Format(time.RFC3339), createGuardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("create guard: %w", err)
	}
	return ok, nil
}

// Save stores a pending OAuth state for ttl.
func (s *SessionStore) Save(ctx context.Context, state, provider string, ttl time.Duration) error {
	if err := s.client.Set(ctx, stateKey(state), provider, ttl).Err(); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}
	return nil
}

// Consume atomically reads and deletes an OAuth state.
func (s *SessionStore) Consume(ctx context.Context, state string) (string, error) {
	provider, err := s.client.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrSessionInvalid
	}
	if err != nil {
		return "", fmt.Errorf("consume oauth state: %w", err)
	}
	return provider, nil
}

func revokedKey(sessionID string) string { return "session:revoked:" + sessionID }
func createKey(sessionID string) string  { return "session:create:" + sessionID }
func stateKey(state string) string       { return "oauth:state:" + state }
