// Package session turns identity events into a resolved user profile.
//
// Each identity has one Resolver, a small state machine:
//
//	Anonymous ──sign-in/restore──▶ ResolvingProfile ──found──▶ Ready
//	                                   │ not found
//	                                   ▼
//	                             CreatingProfile ──ok──▶ Ready
//	                                   │ failed
//	                                   ▼
//	                                 Error
//
// Ready and Error return to Anonymous on sign-out. Error is left only by a
// new session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/greenpath/platform/internal/api/metrics"
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
)

// State tags the resolver's position in the session lifecycle.
type State string

const (
	StateAnonymous        State = "anonymous"
	StateResolvingProfile State = "resolving_profile"
	StateCreatingProfile  State = "creating_profile"
	StateReady            State = "ready"
	StateError            State = "error"
)

const unavailableMessage = "profile could not be loaded, please sign in again"

// Snapshot is a consistent view of a resolver. Profile is set only when
// Ready; Err only in Error.
type Snapshot struct {
	State     State           `json:"state"`
	SessionID string          `json:"session_id,omitempty"`
	Profile   *domain.Profile `json:"profile,omitempty"`
	Message   string          `json:"error,omitempty"`
	Err       error           `json:"-"`
}

// Ready reports whether profile-dependent actions are allowed.
func (s Snapshot) Ready() bool {
	return s.State == StateReady && s.Profile != nil
}

// Loading reports whether a resolution is still in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateResolvingProfile || s.State == StateCreatingProfile
}

type resolution struct {
	profile *domain.Profile
	created bool
}

// Resolver owns the session state of one identity.
type Resolver struct {
	userID string
	store  ports.ProfileStore
	guard  ports.CreateGuard
	flight *singleflight.Group
	log    zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	session *domain.Session
	meta    *domain.SignUpMetadata
	snap    Snapshot
}

// NewResolver creates a resolver in the Anonymous state. Resolvers that
// share flight join concurrent resolutions of the same session.
func NewResolver(userID string, store ports.ProfileStore, guard ports.CreateGuard, flight *singleflight.Group, log zerolog.Logger) *Resolver {
	if flight == nil {
		flight = &singleflight.Group{}
	}
	return &Resolver{
		userID: userID,
		store:  store,
		guard:  guard,
		flight: flight,
		log:    log.With().Str("user_id", userID).Logger(),
		snap:   Snapshot{State: StateAnonymous},
	}
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Announce applies the transition an event implies without doing any I/O.
// A new session bumps the generation, so any resolution still running for
// an older session is discarded when it finishes. Re-announcing the current
// session is a no-op.
func (r *Resolver) Announce(ev domain.SessionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case domain.SessionSignedOut:
		if r.session != nil && r.session.ID != ev.Session.ID {
			return
		}
		r.gen++
		r.session = nil
		r.meta = nil
		r.snap = Snapshot{State: StateAnonymous}

	case domain.SessionSignedIn, domain.SessionRestored:
		if r.session != nil && r.session.ID == ev.Session.ID {
			return
		}
		r.gen++
		sess := ev.Session
		r.session = &sess
		r.meta = ev.Metadata
		r.snap = Snapshot{State: StateResolvingProfile, SessionID: sess.ID}
	}
}

// Handle announces an event and processes it to completion, returning the
// resulting snapshot. Concurrent calls for the same session share a single
// fetch-or-create.
func (r *Resolver) Handle(ctx context.Context, ev domain.SessionEvent) Snapshot {
	r.Announce(ev)
	return r.Resolve(ctx, ev)
}

// Resolve runs the resolution of an event that was already announced. It
// never installs a session: an event whose session is no longer the current
// one, superseded or signed out, is skipped.
func (r *Resolver) Resolve(ctx context.Context, ev domain.SessionEvent) Snapshot {
	if ev.Kind == domain.SessionSignedOut {
		return r.Snapshot()
	}

	r.mu.Lock()
	if r.session == nil || r.session.ID != ev.Session.ID || !r.snap.Loading() {
		snap := r.snap
		r.mu.Unlock()
		return snap
	}
	gen, sess, meta := r.gen, *r.session, r.meta
	r.mu.Unlock()

	start := time.Now()
	v, err, shared := r.flight.Do(sess.ID, func() (any, error) {
		return r.fetchOrCreate(ctx, gen, sess, meta)
	})
	metrics.ProfileResolutionDuration.Observe(time.Since(start).Seconds())

	var res *resolution
	if err == nil {
		res = v.(*resolution)
	}
	return r.finish(gen, res, err, shared)
}

func (r *Resolver) fetchOrCreate(ctx context.Context, gen uint64, sess domain.Session, meta *domain.SignUpMetadata) (*resolution, error) {
	p, err := r.store.FetchProfile(ctx, sess.UserID)
	if err == nil {
		return validated(p, false)
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	r.transition(gen, StateCreatingProfile)

	first, err := r.guard.Acquire(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("create guard: %w", err)
	}
	if !first {
		// The one create for this session already happened elsewhere.
		p, err := r.store.FetchProfile(ctx, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: create already attempted for session %s: %w", domain.ErrProfileUnavailable, sess.ID, err)
		}
		return validated(p, false)
	}

	req := domain.NewProfile{ID: sess.UserID, Email: sess.Email, Role: domain.RoleStudent}
	if meta != nil && meta.Age != nil {
		age := *meta.Age
		req.Age = &age
	}
	p, err = r.store.CreateProfile(ctx, req)
	if err != nil {
		metrics.ProfileCreatesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("create profile: %w", err)
	}
	metrics.ProfileCreatesTotal.WithLabelValues("ok").Inc()
	return validated(p, true)
}

func validated(p *domain.Profile, created bool) (*resolution, error) {
	if err := domain.ValidateProfile(p); err != nil {
		return nil, err
	}
	return &resolution{profile: p, created: created}, nil
}

func (r *Resolver) transition(gen uint64, state State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen == gen && r.snap.Loading() {
		r.snap.State = state
	}
}

func (r *Resolver) finish(gen uint64, res *resolution, err error, shared bool) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen {
		metrics.ProfileResolutionsTotal.WithLabelValues("superseded").Inc()
		r.log.Debug().Uint64("generation", gen).Msg("stale profile resolution discarded")
		return r.snap
	}
	if !r.snap.Loading() {
		// a joined call already applied this result
		return r.snap
	}

	if err != nil {
		metrics.ProfileResolutionsTotal.WithLabelValues("error").Inc()
		r.log.Error().Err(err).Str("session_id", r.snap.SessionID).Msg("profile resolution failed")
		r.snap = Snapshot{State: StateError, SessionID: r.snap.SessionID, Message: unavailableMessage, Err: err}
		return r.snap
	}

	outcome := "ready"
	if res.created {
		outcome = "created"
	}
	metrics.ProfileResolutionsTotal.WithLabelValues(outcome).Inc()
	r.log.Info().
		Str("session_id", r.snap.SessionID).
		Str("role", string(res.profile.Role)).
		Bool("created", res.created).
		Bool("shared", shared).
		Msg("profile ready")

	profile := *res.profile
	r.snap = Snapshot{State: StateReady, SessionID: r.snap.SessionID, Profile: &profile}
	return r.snap
}
