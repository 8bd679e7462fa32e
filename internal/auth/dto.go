package auth

import (
	"time"

	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
)

// LoginRequest captures the credentials sent to the admin login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminDTO is the public view of a CMS editor.
type AdminDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// LoginResponse carries the bearer token issued on a successful login.
type LoginResponse struct {
	AccessToken string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Admin       *AdminDTO `json:"admin"`
}

func FromModel(m *models.AdminUser) *AdminDTO {
	if m == nil {
		return nil
	}
	return &AdminDTO{
		ID:          m.ID,
		Email:       m.Email,
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
