package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

// Registry holds one Resolver per identity and implements
// ports.SessionEventHandler for the session dispatcher.
type Registry struct {
	store    ports.ProfileStore
	guard    ports.CreateGuard
	restorer ports.SessionRestorer
	flight   singleflight.Group
	log      zerolog.Logger

	mu        sync.Mutex
	resolvers map[string]*Resolver
	pending   map[string]struct{}
}

// NewRegistry creates an empty registry. With a nil restorer, Ensure
// resolves restored sessions inline instead of publishing them.
func NewRegistry(store ports.ProfileStore, guard ports.CreateGuard, restorer ports.SessionRestorer, log zerolog.Logger) *Registry {
	return &Registry{
		store:     store,
		guard:     guard,
		restorer:  restorer,
		log:       log,
		resolvers: make(map[string]*Resolver),
		pending:   make(map[string]struct{}),
	}
}

func (g *Registry) resolver(userID string) *Resolver {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.resolvers[userID]
	if !ok {
		r = NewResolver(userID, g.store, g.guard, &g.flight, g.log)
		g.resolvers[userID] = r
	}
	return r
}

func (g *Registry) Announce(ev domain.SessionEvent) {
	g.resolver(ev.Session.UserID).Announce(ev)
}

// HandleEvent resolves an event announced earlier. Events of sessions that
// were superseded or signed out since their announcement are skipped.
func (g *Registry) HandleEvent(ctx context.Context, ev domain.SessionEvent) {
	g.mu.Lock()
	delete(g.pending, ev.Session.ID)
	g.mu.Unlock()

	r := g.resolver(ev.Session.UserID)
	snap := r.Resolve(ctx, ev)
	g.log.Debug().
		Str("kind", string(ev.Kind)).
		Str("user_id", ev.Session.UserID).
		Str("state", string(snap.State)).
		Msg("session event handled")

	if snap.State == StateAnonymous {
		g.mu.Lock()
		if cur, ok := g.resolvers[ev.Session.UserID]; ok && cur == r && r.Snapshot().State == StateAnonymous {
			delete(g.resolvers, ev.Session.UserID)
		}
		g.mu.Unlock()
	}
}

// Snapshot returns the identity's current snapshot, if a resolver exists.
func (g *Registry) Snapshot(userID string) (Snapshot, bool) {
	g.mu.Lock()
	r, ok := g.resolvers[userID]
	g.mu.Unlock()
	if !ok {
		return Snapshot{State: StateAnonymous}, false
	}
	return r.Snapshot(), true
}

// Ensure returns the snapshot for a live session presented at the HTTP
// boundary. A session no resolver knows about is restored once: published
// to the session stream when a restorer is set, resolved inline otherwise.
// Another session of the same identity that is already Ready is served as is.
func (g *Registry) Ensure(ctx context.Context, sess domain.Session) Snapshot {
	r := g.resolver(sess.UserID)
	snap := r.Snapshot()
	if snap.SessionID == sess.ID || snap.State == StateReady {
		return snap
	}

	ev := domain.SessionEvent{Kind: domain.SessionRestored, Session: sess}
	if g.restorer == nil {
		return r.Handle(ctx, ev)
	}

	g.mu.Lock()
	_, inFlight := g.pending[sess.ID]
	g.pending[sess.ID] = struct{}{}
	g.mu.Unlock()

	resolving := Snapshot{State: StateResolvingProfile, SessionID: sess.ID}
	if inFlight {
		return resolving
	}
	if err := g.restorer.Restore(ctx, sess); err != nil {
		g.mu.Lock()
		delete(g.pending, sess.ID)
		g.mu.Unlock()
		g.log.Error().Err(err).Str("session_id", sess.ID).Msg("session restore failed")
		return Snapshot{State: StateError, SessionID: sess.ID, Message: unavailableMessage, Err: err}
	}
	return resolving
}
