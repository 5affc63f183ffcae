package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProfileDTO - the authenticated account
type ProfileDTO struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	BusinessName string     `json:"business_name"`
	Role         string     `json:"role"`
	Plan         string     `json:"plan"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type UpdateProfileRequest struct {
	BusinessName *string `json:"business_name,omitempty"`
	Email        *string `json:"email,omitempty"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
