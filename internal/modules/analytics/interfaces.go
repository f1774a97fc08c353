package analytics

import (
	"context"

	"styledeco/internal/repository"
)

type Repository interface {
	RevenueByService(ctx context.Context, decoratorEmail string) ([]repository.ServiceRevenue, error)
	BookingCountByUser(ctx context.Context) ([]repository.KeyCount, error)
	BookingCountByService(ctx context.Context) ([]repository.KeyCount, error)
	CountPaidBookings(ctx context.Context, assigned bool) (int64, error)
	PaymentCountByStatus(ctx context.Context) ([]repository.KeyCount, error)
}
