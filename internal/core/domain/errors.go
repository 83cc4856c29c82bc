package domain

import "errors"

// Validation errors: malformed input to a pure function or request. Never retried.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrUnknownRole     = errors.New("unknown role")
)

// Auth errors are surfaced verbatim to the client.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrUnsupportedProvider = errors.New("unsupported identity provider")
	ErrSessionInvalid      = errors.New("session is invalid or expired")
	ErrForbidden           = errors.New("access forbidden")
)

// ErrProfileNotFound is the distinguished "absent" signal of the profile store.
// The session resolver recovers from it with a single create attempt.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileUnavailable means the session is not Ready: the profile is still
// resolving, or resolution failed and needs a fresh sign-in.
var ErrProfileUnavailable = errors.New("profile unavailable")

// Progression and city errors.
var (
	ErrLevelNotFound      = errors.New("level not found")
	ErrLevelLocked        = errors.New("level is locked")
	ErrItemNotFound       = errors.New("item not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadyOwned       = errors.New("item already owned")
	ErrNotOwned           = errors.New("item not owned")
	ErrBiomeMismatch      = errors.New("item does not belong to this biome")
)
