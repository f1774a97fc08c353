package payment

import (
	"context"

	"styledeco/internal/domain"
	"styledeco/internal/repository"
)

// Processor is the external card processor.
type Processor interface {
	CreateCheckout(ctx context.Context, params CheckoutParams) (*domain.CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error)
	// ParseWebhook verifies a delivery and returns the completed session id,
	// or "" for events that need no action.
	ParseWebhook(payload []byte, signature string) (string, error)
}

type PaymentRepository interface {
	CreateOnce(ctx context.Context, p *domain.Payment) (*domain.Payment, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	List(ctx context.Context, f repository.PaymentFilter) ([]domain.Payment, error)
	Cancel(ctx context.Context, id string) (*domain.Payment, error)
}

type BookingReader interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

// BookingMarker flips a booking to paid; repeated calls are no-ops.
type BookingMarker interface {
	MarkPaid(ctx context.Context, id string) (*domain.Booking, error)
}
