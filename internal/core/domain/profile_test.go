package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestParseRole(t *testing.T) {
	for _, s := range []string{"student", "Teacher", " ADMIN "} {
		_, err := ParseRole(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseRole("superuser")
	assert.True(t, errors.Is(err, ErrUnknownRole))
}

func TestNewProfile_Build_DefaultsToStudent(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := NewProfile{ID: "u1", Email: "kid@example.com", Age: ptr(13)}.Build(now)

	assert.Equal(t, RoleStudent, p.Role)
	require.NotNil(t, p.Difficulty)
	assert.Equal(t, DifficultyMedium, *p.Difficulty)
	assert.Equal(t, now, p.CreatedAt)
}

func TestNewProfile_Build_DropsAgeForNonStudents(t *testing.T) {
	p := NewProfile{ID: "u1", Email: "t@example.com", Role: RoleTeacher, Age: ptr(40)}.Build(time.Now())
	assert.Nil(t, p.Age)
	assert.Nil(t, p.Difficulty)
}

func TestValidateProfile(t *testing.T) {
	cases := []struct {
		name    string
		p       *Profile
		wantErr bool
	}{
		{"nil", nil, true},
		{"student", &Profile{ID: "1", Email: "a@b.c", Role: RoleStudent, Age: ptr(10)}, false},
		{"teacher with class", &Profile{ID: "1", Email: "a@b.c", Role: RoleTeacher, ClassName: ptr("7B")}, false},
		{"unknown role", &Profile{ID: "1", Email: "a@b.c", Role: "wizard"}, true},
		{"missing email", &Profile{ID: "1", Role: RoleStudent}, true},
		{"teacher with age", &Profile{ID: "1", Email: "a@b.c", Role: RoleTeacher, Age: ptr(30)}, true},
		{"student with class", &Profile{ID: "1", Email: "a@b.c", Role: RoleStudent, ClassName: ptr("7B")}, true},
		{"bad difficulty", &Profile{ID: "1", Email: "a@b.c", Role: RoleStudent, Difficulty: ptr(Difficulty("legendary"))}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateProfile(tc.p)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidProfile), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfile_EffectiveDifficulty(t *testing.T) {
	stored := DifficultyHard
	d, ok := Profile{Difficulty: &stored, Age: ptr(9)}.EffectiveDifficulty()
	assert.True(t, ok)
	assert.Equal(t, DifficultyHard, d)

	d, ok = Profile{Age: ptr(9)}.EffectiveDifficulty()
	assert.True(t, ok)
	assert.Equal(t, DifficultyEasy, d)

	_, ok = Profile{}.EffectiveDifficulty()
	assert.False(t, ok)
}
