package domain

import (
	"fmt"
	"strings"
	"time"
)

// Profile is the durable record of a user's role and role-specific fields.
// Role never changes after creation.
type Profile struct {
	ID         string      `json:"id"`
	Email      string      `json:"email"`
	Role       Role        `json:"role"`
	Age        *int        `json:"age,omitempty"`
	ClassName  *string     `json:"class_name,omitempty"`
	Difficulty *Difficulty `json:"difficulty_level,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewProfile is the create request sent to the profile store.
type NewProfile struct {
	ID    string
	Email string
	Role  Role
	Age   *int
}

// Build turns the request into a Profile, defaulting to the student role and
// deriving the difficulty tier from age.
func (np NewProfile) Build(now time.Time) Profile {
	role := np.Role
	if role == "" {
		role = RoleStudent
	}
	p := Profile{
		ID:        np.ID,
		Email:     np.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if np.Age != nil && role == RoleStudent {
		age := *np.Age
		d := ClassifyAge(age)
		p.Age = &age
		p.Difficulty = &d
	}
	return p
}

// ValidateProfile enforces the closed profile shape on records coming back
// from a store: a known role, an id and email, and only the fields that
// belong to that role.
func ValidateProfile(p *Profile) error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: id and email are required", ErrInvalidProfile)
	}
	role, err := ParseRole(string(p.Role))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	p.Role = role

	if p.Age != nil && role != RoleStudent {
		return fmt.Errorf("%w: age is only valid for students", ErrInvalidProfile)
	}
	if p.ClassName != nil && role != RoleTeacher {
		return fmt.Errorf("%w: class name is only valid for teachers", ErrInvalidProfile)
	}
	if p.Difficulty != nil && p.Difficulty.Rank() == 0 {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidProfile, *p.Difficulty)
	}
	return nil
}

// EffectiveDifficulty prefers the stored tier and falls back to the age.
func (p Profile) EffectiveDifficulty() (Difficulty, bool) {
	if p.Difficulty != nil {
		return *p.Difficulty, true
	}
	if p.Age != nil {
		return ClassifyAge(*p.Age), true
	}
	return "", false
}
