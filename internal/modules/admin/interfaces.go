package admin

import (
	"context"

	"styledeco/internal/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	SetRole(ctx context.Context, email string, role domain.Role, specialties []string) (*domain.User, error)
	ToggleActive(ctx context.Context, email string) (*domain.User, error)
}
