package catalog

import (
	"context"

	"styledeco/internal/domain"
	"styledeco/internal/repository"
)

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	ListByService(ctx context.Context, serviceID string) ([]domain.Review, error)
}
