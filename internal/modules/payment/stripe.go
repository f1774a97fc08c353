package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"styledeco/internal/domain"
)

const (
	metaBookingID   = "bookingId"
	metaSenderEmail = "senderEmail"
	metaServiceName = "serviceName"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	ClientURL     string
}

type StripeProcessor struct {
	api *client.API
	cfg StripeConfig
}

func NewStripeProcessor(cfg StripeConfig) *StripeProcessor {
	return &StripeProcessor{
		api: client.New(cfg.SecretKey, nil),
		cfg: cfg,
	}
}

func (p *StripeProcessor) CreateCheckout(ctx context.Context, in CheckoutParams) (*domain.CheckoutSession, error) {
	base := strings.TrimRight(p.cfg.ClientURL, "/")

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(p.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(in.ServiceName),
				},
				UnitAmount: stripe.Int64(toMinorUnits(in.Amount)),
			},
			Quantity: stripe.Int64(1),
		}},
		CustomerEmail: stripe.String(in.SenderEmail),
		SuccessURL:    stripe.String(base + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(base + "/dashboard/payment-cancel"),
	}
	params.Context = ctx
	params.AddMetadata(metaBookingID, in.BookingID)
	params.AddMetadata(metaSenderEmail, in.SenderEmail)
	params.AddMetadata(metaServiceName, in.ServiceName)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return toCheckoutSession(s), nil
}

func (p *StripeProcessor) GetSession(ctx context.Context, sessionID string) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, mapStripeError(err)
	}
	return toCheckoutSession(s), nil
}

func (p *StripeProcessor) ParseWebhook(payload []byte, signature string) (string, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return "", fmt.Errorf("%w: webhook signature: %v", domain.ErrUnauthenticated, err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
	default:
		return "", nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return "", fmt.Errorf("%w: webhook payload: %v", domain.ErrValidation, err)
	}
	return s.ID, nil
}

func toCheckoutSession(s *stripe.CheckoutSession) *domain.CheckoutSession {
	out := &domain.CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Status:      string(s.PaymentStatus),
		BookingID:   s.Metadata[metaBookingID],
		SenderEmail: s.Metadata[metaSenderEmail],
		ServiceName: s.Metadata[metaServiceName],
		Amount:      fromMinorUnits(s.AmountTotal),
	}
	if out.SenderEmail == "" {
		out.SenderEmail = s.CustomerEmail
	}
	if s.PaymentIntent != nil {
		out.TransactionID = s.PaymentIntent.ID
	}
	return out
}

// mapStripeError folds processor failures into the domain taxonomy. Anything
// that is not a definite answer from Stripe counts as unavailable.
func mapStripeError(err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: stripe: %v", domain.ErrUpstreamUnavailable, err)
	}

	switch {
	case se.HTTPStatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: stripe: %s", domain.ErrNotFound, se.Msg)
	case se.HTTPStatusCode == http.StatusTooManyRequests || se.HTTPStatusCode >= 500:
		return fmt.Errorf("%w: stripe: %s", domain.ErrUpstreamUnavailable, se.Msg)
	case se.HTTPStatusCode == http.StatusUnauthorized:
		return fmt.Errorf("stripe rejected api key: %s", se.Msg)
	default:
		return fmt.Errorf("%w: stripe: %s", domain.ErrValidation, se.Msg)
	}
}

var hundred = decimal.NewFromInt(100)

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}

// Unconfigured stands in when no processor key is set. Every call reports
// the processor as unavailable.
type Unconfigured struct{}

var errUnconfigured = fmt.Errorf("%w: payment processor is not configured", domain.ErrUpstreamUnavailable)

func (Unconfigured) CreateCheckout(context.Context, CheckoutParams) (*domain.CheckoutSession, error) {
	return nil, errUnconfigured
}

func (Unconfigured) GetSession(context.Context, string) (*domain.CheckoutSession, error) {
	return nil, errUnconfigured
}

func (Unconfigured) ParseWebhook([]byte, string) (string, error) {
	return "", errUnconfigured
}
