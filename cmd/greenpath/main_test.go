package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/infrastructure/config"
)

func runCmd(t *testing.T, run func(*cobra.Command, []string) error) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := run(cmd, nil)
	return out.String(), err
}

func TestClassifyCmd(t *testing.T) {
	classifyAge = 13
	defer func() { classifyAge = 0 }()

	out, err := runCmd(t, runClassify)
	require.NoError(t, err)

	var view map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "medium", view["tier"])
	assert.Equal(t, "Ages 12-14", view["age_range"])
}

func TestCarbonCmd(t *testing.T) {
	carbonCurrent, carbonMax = 260, 1000
	defer func() { carbonCurrent, carbonMax = 0, domain.DefaultMaxFootprint }()

	out, err := runCmd(t, runCarbon)
	require.NoError(t, err)

	var status domain.CarbonStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, domain.CarbonGood, status.Tier)
	assert.InDelta(t, 26.0, status.Percentage, 1e-9)
}

func TestCarbonCmd_RejectsZeroMax(t *testing.T) {
	carbonCurrent, carbonMax = 10, 0
	defer func() { carbonCurrent, carbonMax = 0, domain.DefaultMaxFootprint }()

	_, err := runCmd(t, runCarbon)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestSeedCatalog(t *testing.T) {
	levels := domain.ResolveLocks(seedLevels())
	require.Len(t, levels, 5)
	assert.False(t, levels[0].Locked)
	for i, l := range levels {
		assert.Equal(t, i+1, l.Position)
		assert.NotZero(t, l.Difficulty.Rank(), l.ID)
		if i > 0 {
			assert.True(t, l.Locked, "%s should start locked", l.ID)
		}
	}

	seen := map[string]bool{}
	for _, item := range seedItems() {
		assert.False(t, seen[item.ID], "duplicate item %s", item.ID)
		seen[item.ID] = true
		_, err := domain.ParseBiome(string(item.Biome))
		assert.NoError(t, err, item.ID)
		assert.Positive(t, item.Cost)
	}
}

func TestSeedCmd_CreditFlagsGoTogether(t *testing.T) {
	creditUser, creditPoints = "u1", 0
	defer func() { creditUser, creditPoints = "", 0 }()

	_, err := runCmd(t, runSeed)
	assert.Error(t, err)
}

func TestStoreConfigMapping(t *testing.T) {
	m := mongoConfig(config.MongoConfig{URI: "mongodb://db:27017", Database: "greenpath", AppName: "greenpath", MaxPoolSize: 40, MinPoolSize: 2, Timeout: 3 * time.Second})
	assert.Equal(t, "greenpath", m.AppName)
	assert.Equal(t, uint64(40), m.MaxPoolSize)
	assert.Equal(t, uint64(2), m.MinPoolSize)
	assert.Equal(t, 3*time.Second, m.Timeout)

	r := redisConfig(config.RedisConfig{URL: "redis://cache:6379/1", ClientName: "greenpath", PoolSize: 16, Timeout: time.Second})
	assert.Equal(t, "redis://cache:6379/1", r.URL)
	assert.Equal(t, "greenpath", r.ClientName)
	assert.Equal(t, 16, r.PoolSize)
	assert.Equal(t, time.Second, r.Timeout)
}
