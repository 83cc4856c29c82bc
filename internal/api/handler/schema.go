package handler

import (
	"github.com/greenpath/platform/internal/core/domain"
	"github.com/greenpath/platform/internal/core/ports"
	"github.com/greenpath/platform/internal/core/session"
)

// --- Auth ---

type signUpRequest struct {
	Email     string  `json:"email"      validate:"required,email"`
	Password  string  `json:"password"   validate:"required,min=6"`
	Role      string  `json:"role"       validate:"omitempty,oneof=student teacher admin"`
	Age       *int    `json:"age"        validate:"omitempty,gte=8,lte=22"`
	ClassName *string `json:"class_name" validate:"omitempty,max=64"`
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   string    `json:"expires_at"`
	User        userShort `json:"user"`
}

type userShort struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

type signUpResponse struct {
	User    *domain.Identity `json:"user"`
	Session *sessionResponse `json:"session,omitempty"`
}

// --- Session ---

type sessionStateResponse struct {
	User userShort `json:"user"`
	session.Snapshot
}

// --- City ---

type placeRequest struct {
	Biome string `json:"biome" validate:"required"`
}

// --- Derivation ---

type difficultyResponse struct {
	Age int `json:"age"`
	*ports.DifficultyView
}
