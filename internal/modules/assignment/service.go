package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/modules/identity"
	"styledeco/internal/pkg/events"
	"styledeco/internal/pkg/notify"
	"styledeco/internal/repository"
)

type Service struct {
	bookings BookingRepository
	users    UserLookup
	sms      notify.SMSSender
	events   events.Publisher
	log      *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepository, users UserLookup, sms notify.SMSSender, publisher events.Publisher, log *zap.Logger) *Service {
	if sms == nil {
		sms = notify.Noop{}
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{
		bookings: bookings,
		users:    users,
		sms:      sms,
		events:   publisher,
		log:      log,
		now:      time.Now,
	}
}

// ListAssignable returns paid bookings that have no decorator yet.
func (s *Service) ListAssignable(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	if err := identity.Authorize(p, identity.ActionAssign, identity.Resource{}); err != nil {
		return nil, err
	}
	unassigned := false
	return s.bookings.List(ctx, repository.BookingFilter{
		Status:   domain.BookingPaid,
		Assigned: &unassigned,
	})
}

// Assign gives a paid booking to an active decorator. An already assigned
// booking must be unassigned first.
func (s *Service) Assign(ctx context.Context, p domain.Principal, req AssignRequest) (*domain.Booking, error) {
	if err := identity.Authorize(p, identity.ActionAssign, identity.Resource{}); err != nil {
		return nil, err
	}

	decorator, err := s.decorator(ctx, req.DecoratorEmail)
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.Assign(ctx, req.BookingID, decorator.Email)
	if err != nil {
		return nil, err
	}

	s.log.Info("decorator assigned",
		zap.String("booking_id", b.ID),
		zap.String("decorator", decorator.Email),
		zap.String("admin", p.ID),
	)
	s.events.Publish(events.FromBooking(events.BookingAssigned, b))
	s.notify(ctx, decorator, b)
	return b, nil
}

func (s *Service) decorator(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: no user %s", domain.ErrValidation, email)
	}
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleDecorator {
		return nil, fmt.Errorf("%w: %s is not a decorator", domain.ErrValidation, email)
	}
	if !u.Active {
		return nil, fmt.Errorf("%w: decorator %s is deactivated", domain.ErrValidation, email)
	}
	return u, nil
}

// notify is best effort. A failed SMS never undoes the assignment.
func (s *Service) notify(ctx context.Context, decorator *domain.User, b *domain.Booking) {
	if decorator.Phone == "" {
		return
	}
	body := notify.AssignmentMessage(b.ServiceName, b.BookedAt.Format("2006-01-02"))
	if err := s.sms.SendSMS(ctx, decorator.Phone, body); err != nil {
		s.log.Warn("assignment sms failed",
			zap.String("booking_id", b.ID),
			zap.String("decorator", decorator.Email),
			zap.Error(err),
		)
	}
}

func (s *Service) UpdateProjectStatus(ctx context.Context, p domain.Principal, bookingID, status string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionUpdateProjectStatus, identity.BookingResource(b)); err != nil {
		return nil, err
	}

	ps, err := domain.ParseProjectStatus(status)
	if err != nil {
		return nil, err
	}
	if !b.DecoratorAssigned || b.DecoratorEmail == nil {
		return nil, fmt.Errorf("%w: booking %s has no decorator", domain.ErrConflict, bookingID)
	}

	updated, err := s.bookings.SetProjectStatus(ctx, bookingID, *b.DecoratorEmail, ps)
	if err != nil {
		return nil, err
	}

	s.log.Info("project status changed",
		zap.String("booking_id", bookingID),
		zap.String("status", string(ps)),
		zap.String("by", p.ID),
	)
	s.events.Publish(events.FromBooking(events.ProjectStatusChanged, updated))
	return updated, nil
}

// Unassign clears the decorator from a booking. Admins may unassign anyone;
// a decorator only itself.
func (s *Service) Unassign(ctx context.Context, p domain.Principal, bookingID string) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionUnassign, identity.BookingResource(b)); err != nil {
		return nil, err
	}
	if !b.DecoratorAssigned || b.DecoratorEmail == nil {
		return nil, fmt.Errorf("%w: booking %s has no decorator", domain.ErrConflict, bookingID)
	}

	previous := *b.DecoratorEmail
	updated, err := s.bookings.Unassign(ctx, bookingID, previous)
	if err != nil {
		return nil, err
	}

	s.log.Info("decorator unassigned",
		zap.String("booking_id", bookingID),
		zap.String("decorator", previous),
		zap.String("by", p.ID),
	)
	e := events.FromBooking(events.BookingUnassigned, updated)
	e.DecoratorEmail = &previous
	s.events.Publish(e)
	return updated, nil
}

// ListProjects returns the bookings assigned to a decorator. With today set
// only bookings dated on the current UTC day are returned.
func (s *Service) ListProjects(ctx context.Context, p domain.Principal, today bool) ([]domain.Booking, error) {
	if p.Role != domain.RoleDecorator {
		return nil, fmt.Errorf("%w: only decorators have projects", domain.ErrForbidden)
	}
	if err := identity.Authorize(p, identity.ActionReadBooking, identity.Resource{DecoratorEmail: p.ID}); err != nil {
		return nil, err
	}

	filter := repository.BookingFilter{DecoratorEmail: p.ID}
	if today {
		start := s.now().UTC().Truncate(24 * time.Hour)
		end := start.Add(24 * time.Hour)
		filter.BookedFrom = &start
		filter.BookedTo = &end
	}
	return s.bookings.List(ctx, filter)
}
