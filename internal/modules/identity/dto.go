package identity

import (
	"time"

	"styledeco/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user,omitempty"`
}

type MeResponse struct {
	Email       string      `json:"email"`
	Name        string      `json:"name,omitempty"`
	Role        domain.Role `json:"role"`
	Specialties []string    `json:"specialties"`
	Active      bool        `json:"isActive"`
}
