package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelsFixture(completed ...bool) []Level {
	out := make([]Level, len(completed))
	for i, c := range completed {
		out[i] = Level{
			ID:           string(rune('a' + i)),
			Position:     i + 1,
			PointsReward: 100,
			Completed:    c,
			Locked:       true,
		}
	}
	return out
}

func TestResolveLocks_Scenario(t *testing.T) {
	got := ResolveLocks(levelsFixture(true, false, false))

	require.Len(t, got, 3)
	assert.False(t, got[0].Locked, "L1")
	assert.False(t, got[1].Locked, "L2")
	assert.True(t, got[2].Locked, "L3")
}

func TestResolveLocks_FirstAlwaysUnlocked(t *testing.T) {
	got := ResolveLocks(levelsFixture(false, false))
	assert.False(t, got[0].Locked)
	assert.True(t, got[1].Locked)
}

func TestResolveLocks_IgnoresInputFlags(t *testing.T) {
	in := levelsFixture(false, false, false)
	in[2].Locked = false

	got := ResolveLocks(in)
	assert.True(t, got[2].Locked)
}

func TestResolveLocks_NeverUnlocksPastIncomplete(t *testing.T) {
	patterns := [][]bool{
		{true, true, true, true},
		{true, false, true, false},
		{false, true, true, true},
		{true, true, false, true, true},
	}
	for _, p := range patterns {
		got := ResolveLocks(levelsFixture(p...))
		for i := 1; i < len(got); i++ {
			if !got[i].Locked {
				assert.True(t, got[i-1].Completed, "pattern %v: level %d unlocked after incomplete level", p, i+1)
			}
		}
	}
}

func TestResolveLocks_OrdersByPositionWithoutMutatingInput(t *testing.T) {
	in := []Level{
		{ID: "third", Position: 3},
		{ID: "first", Position: 1, Completed: true},
		{ID: "second", Position: 2},
	}

	got := ResolveLocks(in)

	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "third", in[0].ID)
	assert.False(t, got[1].Locked)
	assert.True(t, got[2].Locked)
}

func TestResolveLocks_Empty(t *testing.T) {
	assert.Empty(t, ResolveLocks(nil))
}

func TestSummarize(t *testing.T) {
	got := Summarize(ResolveLocks(levelsFixture(true, true, false, false)))
	assert.Equal(t, ProgressSummary{Completed: 2, Available: 1, Locked: 1, PointsEarned: 200}, got)
}

func TestMarkCompleted(t *testing.T) {
	got := MarkCompleted(levelsFixture(false, false), map[string]bool{"b": true})
	assert.False(t, got[0].Completed)
	assert.True(t, got[1].Completed)
}
