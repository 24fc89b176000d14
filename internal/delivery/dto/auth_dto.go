package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type SignUpRequest struct {
	Phone    string `json:"phone" validate:"required,e164"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInRequest struct {
	Phone    string `json:"phone" validate:"required,e164"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CompleteProfileRequest struct {
	FullName string `json:"full_name" validate:"required,notblank,min=2,max=255"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	Profile      *ProfileResponse `json:"profile,omitempty"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	FullName  *string   `json:"full_name"`
	Onboarded bool      `json:"onboarded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionResponse describes the authenticated actor behind an access token.
type SessionResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Phone   string    `json:"phone"`
	Role    string    `json:"role"`
	TokenID string    `json:"token_id"`
}

type MeResponse struct {
	Session SessionResponse  `json:"session"`
	Profile *ProfileResponse `json:"profile"`
}
