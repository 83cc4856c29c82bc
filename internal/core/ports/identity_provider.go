package ports

import (
	"context"

	"github.com/greenpath/platform/internal/core/domain"
)

// SignUpResult carries the new account and, when the account can sign in
// right away, its first session.
type SignUpResult struct {
	Identity *domain.Identity `json:"user"`
	Session  *domain.Session  `json:"session,omitempty"`
}

// IdentityProvider is the authentication collaborator. Every sign-in,
// restore and sign-out is also published on the Subscribe stream.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	// SignInWithOAuth returns the URL the client must be redirected to.
	SignInWithOAuth(ctx context.Context, provider string) (string, error)
	CompleteOAuth(ctx context.Context, provider, state, code string) (*domain.Session, error)
	SignOut(ctx context.Context, session domain.Session) error
	CurrentSession(ctx context.Context, token string) (*domain.Session, error)
	Subscribe() <-chan domain.SessionEvent
}

// SessionRestorer re-announces a live session that no resolver holds, for
// example after a restart.
type SessionRestorer interface {
	Restore(ctx context.Context, session domain.Session) error
}

// SessionEventHandler consumes the session-change stream. Announce is called
// in arrival order as soon as an event is received; HandleEvent runs it to
// completion on the identity's worker.
type SessionEventHandler interface {
	Announce(event domain.SessionEvent)
	HandleEvent(ctx context.Context, event domain.SessionEvent)
}
