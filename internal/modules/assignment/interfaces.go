package assignment

import (
	"context"

	"styledeco/internal/domain"
	"styledeco/internal/repository"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	Assign(ctx context.Context, id, decoratorEmail string) (*domain.Booking, error)
	SetProjectStatus(ctx context.Context, id, decoratorEmail string, status domain.ProjectStatus) (*domain.Booking, error)
	Unassign(ctx context.Context, id, decoratorEmail string) (*domain.Booking, error)
}

type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
