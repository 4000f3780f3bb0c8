package dto

import (
	"time"

	"github.com/spec-kit/internship-service/internal/domain"
)

// RegisterRequest payload for student registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	School   string `json:"school"`
	Level    string `json:"level"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse is the JSON form of a profile.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	School    string    `json:"school"`
	Level     string    `json:"level"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfileResponse maps a domain profile.
func NewProfileResponse(profile *domain.Profile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	return &ProfileResponse{
		ID:        profile.ID,
		Name:      profile.Name,
		Email:     profile.Email,
		Phone:     profile.Phone,
		School:    profile.School,
		Level:     string(profile.Level),
		Role:      string(profile.Role),
		Active:    profile.Active,
		CreatedAt: profile.CreatedAt,
	}
}
