package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/modules/identity"
	"styledeco/internal/pkg/validator"
	"styledeco/internal/repository"
)

type Service struct {
	services ServiceRepository
	reviews  ReviewRepository
	log      *zap.Logger
}

func NewService(services ServiceRepository, reviews ReviewRepository, log *zap.Logger) *Service {
	return &Service{services: services, reviews: reviews, log: log}
}

func (s *Service) List(ctx context.Context, f repository.ServiceFilter) ([]domain.Service, error) {
	return s.services.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Service, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p domain.Principal, req CreateServiceRequest) (*domain.Service, error) {
	if err := identity.Authorize(p, identity.ActionWriteCatalog, identity.Resource{}); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Description = strings.TrimSpace(req.Description)
	req.Image = strings.TrimSpace(req.Image)
	// Round before validating so a sub-cent amount cannot be stored as zero.
	req.Cost = req.Cost.Round(2)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	createdBy := domain.NormalizeEmail(req.CreatedByEmail)
	if createdBy == "" {
		createdBy = p.ID
	}

	svc := &domain.Service{
		Name:        req.Name,
		Cost:        req.Cost,
		Unit:        strings.TrimSpace(req.Unit),
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
		CreatedBy:   createdBy,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.log.Info("service created", zap.String("service_id", svc.ID), zap.String("by", p.ID))
	return svc, nil
}

func (s *Service) Update(ctx context.Context, p domain.Principal, id string, req UpdateServiceRequest) (*domain.Service, error) {
	if err := identity.Authorize(p, identity.ActionWriteCatalog, identity.Resource{}); err != nil {
		return nil, err
	}
	if req.Cost != nil {
		rounded := req.Cost.Round(2)
		req.Cost = &rounded
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	svc, err := s.services.Update(ctx, id, req.columns())
	if err != nil {
		return nil, err
	}

	s.log.Info("service updated", zap.String("service_id", id), zap.String("by", p.ID))
	return svc, nil
}

// Delete removes the service from the catalog. Existing bookings keep their
// name and cost snapshot.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := identity.Authorize(p, identity.ActionWriteCatalog, identity.Resource{}); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("service deleted", zap.String("service_id", id), zap.String("by", p.ID))
	return nil
}

func (s *Service) ListReviews(ctx context.Context, serviceID string) ([]domain.Review, error) {
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}
	return s.reviews.ListByService(ctx, serviceID)
}

func (s *Service) AddReview(ctx context.Context, p domain.Principal, serviceID string, req AddReviewRequest) (*domain.Review, error) {
	if err := identity.Authorize(p, identity.ActionWriteReview, identity.Resource{}); err != nil {
		return nil, err
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ServiceID: serviceID,
		UserEmail: p.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}
