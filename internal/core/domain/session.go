package domain

import "time"

// Session is one authenticated presence, from sign-in to sign-out.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Provider  string    `json:"provider"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"access_token,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionEventKind tags a change published by the identity provider.
type SessionEventKind string

const (
	SessionSignedIn  SessionEventKind = "signed_in"
	SessionSignedOut SessionEventKind = "signed_out"
	SessionRestored  SessionEventKind = "restored"
)

// SessionEvent is one message on the session-change stream. Metadata is
// the sign-up metadata of the identity when the provider knows it.
type SessionEvent struct {
	Kind     SessionEventKind
	Session  Session
	Metadata *SignUpMetadata
	At       time.Time
}
