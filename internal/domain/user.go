package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleGuest     Role = "guest"
	RoleUser      Role = "user"
	RoleDecorator Role = "decorator"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID           string    `json:"_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Specialties  []string  `json:"specialties"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the identity a request acts as. It is resolved per request
// and never persisted.
type Principal struct {
	ID          string   `json:"email"`
	Role        Role     `json:"role"`
	Specialties []string `json:"specialties"`
	Active      bool     `json:"isActive"`
}

func Guest() Principal {
	return Principal{Role: RoleGuest, Active: true}
}

func AdminPrincipal(email string) Principal {
	return Principal{ID: NormalizeEmail(email), Role: RoleAdmin, Active: true}
}

func (u *User) Principal() Principal {
	return Principal{
		ID:          u.Email,
		Role:        u.Role,
		Specialties: u.Specialties,
		Active:      u.Active,
	}
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) IsGuest() bool { return p.Role == RoleGuest || p.ID == "" }

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Credential carries whatever the caller presented. Both fields may be empty.
type Credential struct {
	AdminToken  string
	BearerToken string
}

func (c Credential) Empty() bool {
	return c.AdminToken == "" && c.BearerToken == ""
}
