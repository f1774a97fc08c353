package payment

import "github.com/shopspring/decimal"

type CheckoutRequest struct {
	BookingID   string          `json:"bookId" binding:"required"`
	Cost        decimal.Decimal `json:"cost"`
	SenderEmail string          `json:"senderEmail"`
	ServiceName string          `json:"serviceName"`
}

type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

type RecordRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// CheckoutParams is what a processor needs to open a hosted checkout.
type CheckoutParams struct {
	BookingID   string
	SenderEmail string
	ServiceName string
	Amount      decimal.Decimal
}
