package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ParseRole rejects anything outside the closed role set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Identity providers.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// SignUpMetadata is what the sign-up form submits besides credentials.
// The requested role is recorded, not granted: profiles start as students.
type SignUpMetadata struct {
	Role      Role    `json:"role" bson:"role"`
	Age       *int    `json:"age,omitempty" bson:"age,omitempty"`
	ClassName *string `json:"class_name,omitempty" bson:"class_name,omitempty"`
}

// Identity is an authenticated account as known by the identity provider.
// It is distinct from the Profile, which lives in the profile store.
type Identity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Provider     string         `json:"provider"`
	Subject      string         `json:"-"`
	Metadata     SignUpMetadata `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
