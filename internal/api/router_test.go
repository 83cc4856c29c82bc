package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
	"github.com/greenpath/platform/internal/core/session"
)

// --- stubs ---

type stubIdentity struct {
	sessions map[string]*domain.Session
}

func (s *stubIdentity) SignUp(_ context.Context, email, _ string, _ domain.SignUpMetadata) (*ports.SignUpResult, error) {
	if email == "taken@example.com" {
		return nil, domain.ErrUserExists
	}
	return &ports.SignUpResult{Identity: &domain.Identity{ID: "new", Email: email}}, nil
}

func (s *stubIdentity) SignInWithPassword(context.Context, string, string) (*domain.Session, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubIdentity) SignInWithOAuth(_ context.Context, provider string) (string, error) {
	return "", domain.ErrUnsupportedProvider
}

func (s *stubIdentity) CompleteOAuth(context.Context, string, string, string) (*domain.Session, error) {
	return nil, domain.ErrUnsupportedProvider
}

func (s *stubIdentity) SignOut(context.Context, domain.Session) error { return nil }

func (s *stubIdentity) CurrentSession(_ context.Context, token string) (*domain.Session, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionInvalid
	}
	return sess, nil
}

func (s *stubIdentity) Subscribe() <-chan domain.SessionEvent { return nil }

// snapshotsByUser answers Ensure from a fixed table keyed by user id.
type snapshotsByUser map[string]session.Snapshot

func (m snapshotsByUser) Ensure(_ context.Context, sess domain.Session) session.Snapshot {
	if snap, ok := m[sess.UserID]; ok {
		return snap
	}
	return session.Snapshot{State: session.StateResolvingProfile, SessionID: sess.ID}
}

type stubLevels struct{}

func (stubLevels) Board(context.Context, domain.Profile) (*ports.LevelBoard, error) {
	return &ports.LevelBoard{}, nil
}

func (stubLevels) Start(_ context.Context, _ domain.Profile, id string) (*domain.Level, error) {
	return nil, domain.ErrLevelLocked
}

type stubCity struct{}

func (stubCity) Catalog(context.Context, domain.Profile) (*ports.Catalog, error) {
	return &ports.Catalog{}, nil
}

func (stubCity) Placed(context.Context, domain.Profile, domain.Biome) ([]domain.CityItem, error) {
	return nil, nil
}

func (stubCity) Purchase(context.Context, domain.Profile, string) (*ports.PurchaseResult, error) {
	return nil, domain.ErrInsufficientPoints
}

func (stubCity) Place(context.Context, domain.Profile, string, domain.Biome) (*domain.CityItem, error) {
	return nil, domain.ErrNotOwned
}

type stubDashboard struct{}

func (stubDashboard) Dashboard(_ context.Context, p domain.Profile) (*ports.Dashboard, error) {
	return &ports.Dashboard{Profile: p}, nil
}

type stubProfiles struct{}

func (stubProfiles) FetchProfile(_ context.Context, id string) (*domain.Profile, error) {
	switch id {
	case "u-student":
		return &domain.Profile{ID: id, Email: "kid@example.com", Role: domain.RoleStudent}, nil
	case "u-corrupt":
		return &domain.Profile{ID: id, Email: "odd@example.com", Role: "superuser"}, nil
	}
	return nil, domain.ErrProfileNotFound
}

func (stubProfiles) CreateProfile(context.Context, domain.NewProfile) (*domain.Profile, error) {
	return nil, domain.ErrUserExists
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	identity := &stubIdentity{sessions: map[string]*domain.Session{
		"student": {ID: "s-student", UserID: "u-student"},
		"teacher": {ID: "s-teacher", UserID: "u-teacher"},
		"loading": {ID: "s-loading", UserID: "u-loading"},
		"broken":  {ID: "s-broken", UserID: "u-broken"},
	}}
	sessions := snapshotsByUser{
		"u-student": {State: session.StateReady, SessionID: "s-student", Profile: &domain.Profile{ID: "u-student", Role: domain.RoleStudent}},
		"u-teacher": {State: session.StateReady, SessionID: "s-teacher", Profile: &domain.Profile{ID: "u-teacher", Role: domain.RoleTeacher}},
		"u-broken":  {State: session.StateError, SessionID: "s-broken", Message: "profile could not be loaded, please sign in again"},
	}
	return NewRouter(Dependencies{
		Log:       zerolog.Nop(),
		Identity:  identity,
		Sessions:  sessions,
		Profiles:  stubProfiles{},
		Levels:    stubLevels{},
		City:      stubCity{},
		Dashboard: stubDashboard{},
	})
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	h := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		target string
		token  string
		body   string
		code   int
	}{
		{"dashboard without token", http.MethodGet, "/v1/dashboard", "", "", http.StatusUnauthorized},
		{"dashboard bad token", http.MethodGet, "/v1/dashboard", "forged", "", http.StatusUnauthorized},
		{"dashboard while resolving", http.MethodGet, "/v1/dashboard", "loading", "", http.StatusAccepted},
		{"dashboard on error state", http.MethodGet, "/v1/dashboard", "broken", "", http.StatusConflict},
		{"dashboard ready", http.MethodGet, "/v1/dashboard", "student", "", http.StatusOK},
		{"levels ready", http.MethodGet, "/v1/levels", "student", "", http.StatusOK},
		{"start locked level", http.MethodPost, "/v1/levels/l2/start", "student", "", http.StatusForbidden},
		{"purchase unaffordable", http.MethodPost, "/v1/city/items/5/purchase", "student", "", http.StatusPaymentRequired},
		{"place unowned", http.MethodPost, "/v1/city/items/4/place", "student", `{"biome":"ocean"}`, http.StatusUnprocessableEntity},
		{"unknown biome", http.MethodGet, "/v1/city/biomes/moon", "student", "", http.StatusBadRequest},
		{"session while resolving", http.MethodGet, "/v1/session", "loading", "", http.StatusOK},
		{"admin as student", http.MethodGet, "/v1/admin/profiles/u-student", "student", "", http.StatusForbidden},
		{"admin as teacher", http.MethodGet, "/v1/admin/profiles/u-student", "teacher", "", http.StatusOK},
		{"admin unknown profile", http.MethodGet, "/v1/admin/profiles/nobody", "teacher", "", http.StatusNotFound},
		{"admin corrupt profile", http.MethodGet, "/v1/admin/profiles/u-corrupt", "teacher", "", http.StatusInternalServerError},
		{"signup taken", http.MethodPost, "/auth/signup", "", `{"email":"taken@example.com","password":"secret1"}`, http.StatusConflict},
		{"signup unknown field", http.MethodPost, "/auth/signup", "", `{"email":"a@example.com","password":"secret1","is_admin":true}`, http.StatusBadRequest},
		{"signup ok", http.MethodPost, "/auth/signup", "", `{"email":"a@example.com","password":"secret1","age":12}`, http.StatusCreated},
		{"login bad credentials", http.MethodPost, "/auth/login", "", `{"email":"a@example.com","password":"nope"}`, http.StatusUnauthorized},
		{"logout without token", http.MethodPost, "/auth/logout", "", "", http.StatusUnauthorized},
		{"logout", http.MethodPost, "/auth/logout", "student", "", http.StatusNoContent},
		{"oauth unsupported", http.MethodGet, "/auth/oauth/github", "", "", http.StatusBadRequest},
		{"difficulty", http.MethodGet, "/v1/difficulty?age=13", "", "", http.StatusOK},
		{"carbon", http.MethodGet, "/v1/carbon?current=260&max=1000", "", "", http.StatusOK},
		{"carbon zero max", http.MethodGet, "/v1/carbon?current=1&max=0", "", "", http.StatusBadRequest},
		{"carbon infinite footprint", http.MethodGet, "/v1/carbon?current=Inf", "", "", http.StatusBadRequest},
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.target, tc.token, tc.body)
			assert.Equal(t, tc.code, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_ResolvingBodyIsPollable(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/v1/levels", "loading", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "resolving_profile", body["state"])
}

func TestRouter_CarbonScenario(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/v1/carbon?current=260&max=1000", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status domain.CarbonStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, domain.CarbonGood, status.Tier)
	assert.Equal(t, "GOOD", status.Label)
}
