package dto

import "time"

type CreateUserRequest struct {
	Name     string `json:"name"`
	UserID   string `json:"userid" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	IsActive *bool  `json:"is_active"`
}

// AuthUser is the verified principal every position and trade query is scoped by.
type AuthUser struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"userid"`
	IsActive   bool   `json:"is_active"`
}

type AuthResponse struct {
	AuthUser
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}
