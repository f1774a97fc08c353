package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/modules/identity"
	"styledeco/internal/pkg/events"
	"styledeco/internal/pkg/validator"
	"styledeco/internal/repository"
)

type Service struct {
	bookings BookingRepository
	services ServiceLookup
	events   events.Publisher
	log      *zap.Logger
}

func NewService(bookings BookingRepository, services ServiceLookup, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{bookings: bookings, services: services, events: publisher, log: log}
}

// CreateBooking books a catalog service for the principal. Name and cost are
// copied from the service so later catalog edits do not touch the booking.
func (s *Service) CreateBooking(ctx context.Context, p domain.Principal, req CreateBookingRequest) (*domain.Booking, error) {
	if err := identity.Authorize(p, identity.ActionCreateBooking, identity.Resource{OwnerEmail: p.ID}); err != nil {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, strings.TrimSpace(req.ServiceID))
	if err != nil {
		return nil, err
	}

	bookedAt := time.Now().UTC()
	if req.BookedAt != nil && !req.BookedAt.IsZero() {
		bookedAt = req.BookedAt.UTC()
	}

	b := &domain.Booking{
		UserEmail:   p.ID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Cost:        svc.Cost,
		BookedAt:    bookedAt,
		Status:      domain.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.events.Publish(events.FromBooking(events.BookingCreated, b))
	return b, nil
}

// MarkPaid moves a booking to paid. Repeated calls return the current state.
func (s *Service) MarkPaid(ctx context.Context, id string) (*domain.Booking, error) {
	b, changed, err := s.bookings.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info("booking paid", zap.String("booking_id", id))
		s.events.Publish(events.FromBooking(events.BookingPaid, b))
	}
	return b, nil
}

func (s *Service) ListForPrincipal(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	if err := identity.Authorize(p, identity.ActionReadBooking, identity.Resource{OwnerEmail: p.ID, DecoratorEmail: p.ID}); err != nil {
		return nil, err
	}

	var filter repository.BookingFilter
	switch p.Role {
	case domain.RoleAdmin:
	case domain.RoleDecorator:
		filter.DecoratorEmail = p.ID
	default:
		filter.UserEmail = p.ID
	}
	return s.bookings.List(ctx, filter)
}

func (s *Service) ListAll(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	if err := identity.Authorize(p, identity.ActionAdminBooking, identity.Resource{}); err != nil {
		return nil, err
	}
	return s.bookings.List(ctx, repository.BookingFilter{})
}

func (s *Service) Get(ctx context.Context, p domain.Principal, id string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionReadBooking, identity.BookingResource(b)); err != nil {
		return nil, err
	}
	return b, nil
}

// AdminUpdate applies an admin correction. The write only lands if nobody
// else changed the booking since it was read.
func (s *Service) AdminUpdate(ctx context.Context, p domain.Principal, id string, req AdminUpdateRequest) (*domain.Booking, error) {
	if err := identity.Authorize(p, identity.ActionAdminBooking, identity.Resource{}); err != nil {
		return nil, err
	}
	if req.empty() {
		return nil, errEmptyPatch
	}
	if req.Cost != nil {
		rounded := req.Cost.Round(2)
		req.Cost = &rounded
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current

	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		if current.Status == domain.BookingPaid && status == domain.BookingPending {
			return nil, errStatusRollback
		}
		next.Status = status
	}
	if req.ServiceName != nil {
		next.ServiceName = strings.TrimSpace(*req.ServiceName)
	}
	if req.Cost != nil {
		next.Cost = *req.Cost
	}
	if req.ProjectStatus != nil {
		ps, err := domain.ParseProjectStatus(*req.ProjectStatus)
		if err != nil {
			return nil, err
		}
		next.ProjectStatus = &ps
	}
	if err := next.CheckInvariant(); err != nil {
		return nil, err
	}

	updated, err := s.bookings.UpdateVersioned(ctx, &next)
	if err != nil {
		return nil, err
	}

	s.log.Info("admin updated booking",
		zap.String("booking_id", id),
		zap.String("admin", p.ID),
		zap.Int64("version", updated.Version),
		zap.Any("patch", req),
	)
	s.events.Publish(events.FromBooking(events.BookingUpdated, updated))
	return updated, nil
}

func (s *Service) AdminDelete(ctx context.Context, p domain.Principal, id string) error {
	if err := identity.Authorize(p, identity.ActionAdminBooking, identity.Resource{}); err != nil {
		return err
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Warn("admin deleted booking",
		zap.String("booking_id", id),
		zap.String("admin", p.ID),
		zap.String("user_email", b.UserEmail),
		zap.String("status", string(b.Status)),
	)
	s.events.Publish(events.FromBooking(events.BookingDeleted, b))
	return nil
}
