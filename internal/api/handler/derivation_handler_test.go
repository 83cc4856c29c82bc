package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpath/platform/internal/core/domain"
)

func TestDerivationHandler_Difficulty(t *testing.T) {
	cases := []struct {
		age   string
		tier  domain.Difficulty
		label string
	}{
		{"11", domain.DifficultyEasy, "Easy"},
		{"12", domain.DifficultyMedium, "Medium"},
		{"18", domain.DifficultyHard, "Hard"},
		{"19", domain.DifficultyExpert, "Expert"},
	}
	h := NewDerivationHandler(0)
	for _, tc := range cases {
		c, rec := newTestContext(http.MethodGet, "/v1/difficulty?age="+tc.age, "")
		require.NoError(t, h.Difficulty(c))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, string(tc.tier), body["tier"], "age=%s", tc.age)
		assert.Equal(t, tc.label, body["label"], "age=%s", tc.age)
	}
}

func TestDerivationHandler_Difficulty_BadInput(t *testing.T) {
	h := NewDerivationHandler(0)
	for _, target := range []string{"/v1/difficulty", "/v1/difficulty?age=ten", "/v1/difficulty?age=-1"} {
		c, _ := newTestContext(http.MethodGet, target, "")
		assert.True(t, errors.Is(h.Difficulty(c), domain.ErrInvalidArgument), target)
	}
}

func TestDerivationHandler_Carbon(t *testing.T) {
	h := NewDerivationHandler(500)

	// default max comes from configuration
	c, rec := newTestContext(http.MethodGet, "/v1/carbon?current=100", "")
	require.NoError(t, h.Carbon(c))
	var status domain.CarbonStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 500.0, status.Max)
	assert.Equal(t, domain.CarbonExcellent, status.Tier)

	c, rec = newTestContext(http.MethodGet, "/v1/carbon?current=1200&max=1000", "")
	require.NoError(t, h.Carbon(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 100.0, status.Percentage)
	assert.Equal(t, domain.CarbonDanger, status.Tier)
}

func TestDerivationHandler_Carbon_BadInput(t *testing.T) {
	h := NewDerivationHandler(0)
	for _, target := range []string{"/v1/carbon", "/v1/carbon?current=x", "/v1/carbon?current=10&max=0", "/v1/carbon?current=Inf", "/v1/carbon?current=1&max=Inf"} {
		c, _ := newTestContext(http.MethodGet, target, "")
		assert.True(t, errors.Is(h.Carbon(c), domain.ErrInvalidArgument), target)
	}
}

type stubProfileStore struct {
	profiles map[string]*domain.Profile
}

func (s *stubProfileStore) FetchProfile(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *stubProfileStore) CreateProfile(context.Context, domain.NewProfile) (*domain.Profile, error) {
	return nil, errors.New("not supported")
}

func TestAdminHandler_Profile(t *testing.T) {
	h := NewAdminHandler(&stubProfileStore{profiles: map[string]*domain.Profile{"u1": readyProfile()}})

	c, rec := newTestContext(http.MethodGet, "/v1/admin/profiles/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	require.NoError(t, h.Profile(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newTestContext(http.MethodGet, "/v1/admin/profiles/u2", "")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	assert.True(t, errors.Is(h.Profile(c), domain.ErrProfileNotFound))
}

func TestAdminHandler_Profile_RejectsInvalidRecord(t *testing.T) {
	age := 30
	h := NewAdminHandler(&stubProfileStore{profiles: map[string]*domain.Profile{
		"u1": {ID: "u1", Email: "t@example.com", Role: domain.RoleTeacher, Age: &age},
		"u2": {ID: "u2", Email: "x@example.com", Role: "wizard"},
	}})

	for _, id := range []string{"u1", "u2"} {
		c, rec := newTestContext(http.MethodGet, "/v1/admin/profiles/"+id, "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		assert.True(t, errors.Is(h.Profile(c), domain.ErrInvalidProfile), id)
		assert.Empty(t, rec.Body.String(), id)
	}
}
