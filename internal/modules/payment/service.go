package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"styledeco/internal/domain"
	"styledeco/internal/modules/identity"
	"styledeco/internal/pkg/events"
	"styledeco/internal/repository"
)

const defaultTimeout = 10 * time.Second

type Service struct {
	payments  PaymentRepository
	bookings  BookingReader
	marker    BookingMarker
	processor Processor
	events    events.Publisher
	log       *zap.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewService(
	payments PaymentRepository,
	bookings BookingReader,
	marker BookingMarker,
	processor Processor,
	publisher events.Publisher,
	timeout time.Duration,
	log *zap.Logger,
) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Service{
		payments:  payments,
		bookings:  bookings,
		marker:    marker,
		processor: processor,
		events:    publisher,
		log:       log,
		timeout:   timeout,
		now:       time.Now,
	}
}

// InitiateCheckout opens a processor session for a pending booking owned by
// the payer. The amount has to match the booked cost exactly.
func (s *Service) InitiateCheckout(ctx context.Context, p domain.Principal, req CheckoutRequest) (*CheckoutResponse, error) {
	b, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionCheckout, identity.BookingResource(b)); err != nil {
		return nil, err
	}
	if payer := domain.NormalizeEmail(req.SenderEmail); payer != "" && payer != b.UserEmail {
		return nil, fmt.Errorf("%w: booking %s does not belong to %s", domain.ErrForbidden, b.ID, payer)
	}
	if b.Status == domain.BookingPaid {
		return nil, fmt.Errorf("%w: booking %s is already paid", domain.ErrConflict, b.ID)
	}
	if !req.Cost.Round(2).Equal(b.Cost.Round(2)) {
		return nil, fmt.Errorf("%w: amount %s does not match booking cost %s", domain.ErrValidation, req.Cost.StringFixed(2), b.Cost.StringFixed(2))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.processor.CreateCheckout(ctx, CheckoutParams{
		BookingID:   b.ID,
		SenderEmail: b.UserEmail,
		ServiceName: b.ServiceName,
		Amount:      b.Cost,
	})
	if err != nil {
		return nil, upstream(ctx, err)
	}

	s.log.Info("checkout session opened",
		zap.String("booking_id", b.ID),
		zap.String("session_id", session.ID),
	)
	return &CheckoutResponse{URL: session.URL, SessionID: session.ID}, nil
}

// SessionStatus looks the session up at the processor without recording
// anything.
func (s *Service) SessionStatus(ctx context.Context, p domain.Principal, sessionID string) (*domain.CheckoutSession, error) {
	session, err := s.fetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionReadPayment, identity.Resource{OwnerEmail: domain.NormalizeEmail(session.SenderEmail)}); err != nil {
		return nil, err
	}
	return session, nil
}

// Record verifies a session on behalf of the payer and returns the payment.
func (s *Service) Record(ctx context.Context, p domain.Principal, sessionID string) (*domain.Payment, error) {
	if p.IsGuest() {
		return nil, fmt.Errorf("%w: authentication required", domain.ErrUnauthenticated)
	}

	payment, err := s.VerifyAndRecord(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionReadPayment, identity.Resource{OwnerEmail: payment.SenderEmail}); err != nil {
		return nil, err
	}
	return payment, nil
}

// VerifyAndRecord records the payment for a paid session exactly once and
// marks its booking paid. Replays return the stored payment.
func (s *Service) VerifyAndRecord(ctx context.Context, sessionID string) (*domain.Payment, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrValidation)
	}

	existing, err := s.payments.GetBySessionID(ctx, sessionID)
	switch {
	case err == nil:
		if err := s.markPaid(ctx, existing.BookingID); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	session, err := s.fetchSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Paid {
		return nil, fmt.Errorf("%w: session %s is %s", domain.ErrPaymentIncomplete, sessionID, session.Status)
	}
	if session.BookingID == "" {
		return nil, fmt.Errorf("%w: session %s carries no booking", domain.ErrValidation, sessionID)
	}

	payment, created, err := s.payments.CreateOnce(ctx, &domain.Payment{
		BookingID:     session.BookingID,
		SenderEmail:   domain.NormalizeEmail(session.SenderEmail),
		ServiceName:   session.ServiceName,
		Amount:        session.Amount,
		TransactionID: session.TransactionID,
		SessionID:     session.ID,
		Status:        domain.PaymentPaid,
		PaidAt:        s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.markPaid(ctx, payment.BookingID); err != nil {
		return nil, err
	}

	if created {
		s.log.Info("payment recorded",
			zap.String("payment_id", payment.ID),
			zap.String("booking_id", payment.BookingID),
			zap.String("session_id", payment.SessionID),
			zap.String("amount", payment.Amount.StringFixed(2)),
		)
		s.events.Publish(paymentEvent(events.PaymentRecorded, payment, s.now()))
	}
	return payment, nil
}

func (s *Service) markPaid(ctx context.Context, bookingID string) error {
	_, err := s.marker.MarkPaid(ctx, bookingID)
	if errors.Is(err, domain.ErrNotFound) {
		// The booking was removed by an admin after payment.
		s.log.Warn("paid booking no longer exists", zap.String("booking_id", bookingID))
		return nil
	}
	return err
}

func (s *Service) fetchSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	session, err := s.processor.GetSession(ctx, sessionID)
	if err != nil {
		return nil, upstream(ctx, err)
	}
	return session, nil
}

// upstream reports a timed out processor call as unavailable.
func upstream(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: payment processor timed out", domain.ErrUpstreamUnavailable)
	}
	return err
}

// HandleWebhook records completed sessions pushed by the processor.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	sessionID, err := s.processor.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if sessionID == "" {
		return nil
	}

	_, err = s.VerifyAndRecord(ctx, sessionID)
	if errors.Is(err, domain.ErrPaymentIncomplete) {
		s.log.Info("webhook for unpaid session ignored", zap.String("session_id", sessionID))
		return nil
	}
	return err
}

// Cancel marks a payment cancelled. Only the sender may do so and the
// booking stays paid.
func (s *Service) Cancel(ctx context.Context, p domain.Principal, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := identity.Authorize(p, identity.ActionCancelPayment, identity.Resource{OwnerEmail: payment.SenderEmail}); err != nil {
		return nil, err
	}
	if p.ID != payment.SenderEmail {
		return nil, fmt.Errorf("%w: only the sender may cancel payment %s", domain.ErrForbidden, paymentID)
	}

	cancelled, err := s.payments.Cancel(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment cancelled",
		zap.String("payment_id", paymentID),
		zap.String("by", p.ID),
	)
	s.events.Publish(paymentEvent(events.PaymentCancelled, cancelled, s.now()))
	return cancelled, nil
}

func (s *Service) ListForPrincipal(ctx context.Context, p domain.Principal) ([]domain.Payment, error) {
	if err := identity.Authorize(p, identity.ActionReadPayment, identity.Resource{OwnerEmail: p.ID, DecoratorEmail: p.ID}); err != nil {
		return nil, err
	}

	var filter repository.PaymentFilter
	switch p.Role {
	case domain.RoleAdmin:
	case domain.RoleDecorator:
		filter.DecoratorEmail = p.ID
	default:
		filter.SenderEmail = p.ID
	}
	return s.payments.List(ctx, filter)
}

func paymentEvent(t events.Type, p *domain.Payment, at time.Time) events.Event {
	return events.Event{
		Type:      t,
		BookingID: p.BookingID,
		UserEmail: p.SenderEmail,
		At:        at.UTC(),
	}
}
