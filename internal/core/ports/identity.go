package ports

import (
	"context"
	"time"

	"github.com/greenpath/platform/internal/core/domain"
)

// IdentityRepository persists accounts known to the identity provider.
type IdentityRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// FindBySubject looks up a federated account by provider and external subject.
	FindBySubject(ctx context.Context, provider, subject string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}

// SessionRevoker remembers signed-out sessions until their tokens expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// OAuthStateStore holds the anti-forgery state of pending redirect sign-ins.
type OAuthStateStore interface {
	Save(ctx context.Context, state, provider string, ttl time.Duration) error
	// Consume returns the provider the state was issued for and deletes it.
	// Unknown or expired states yield domain.ErrSessionInvalid.
	Consume(ctx context.Context, state string) (string, error)
}

// ExternalAccount is what a federated provider tells us about a user.
type ExternalAccount struct {
	Subject string
	Email   string
}

// OAuthConnector drives one federated provider's redirect flow.
type OAuthConnector interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*ExternalAccount, error)
}
