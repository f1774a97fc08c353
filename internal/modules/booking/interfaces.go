package booking

import (
	"context"

	"styledeco/internal/domain"
	"styledeco/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, error)
	MarkPaid(ctx context.Context, id string) (*domain.Booking, bool, error)
	UpdateVersioned(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
}

type ServiceLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}
