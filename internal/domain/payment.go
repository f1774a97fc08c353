package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPaid      PaymentStatus = "paid"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Payment is written once per processor session and is never deleted.
type Payment struct {
	ID            string          `gorm:"type:varchar(36);primaryKey" json:"_id"`
	BookingID     string          `gorm:"type:varchar(36);index;not null" json:"bookId"`
	SenderEmail   string          `gorm:"type:varchar(255);index;not null" json:"senderEmail"`
	ServiceName   string          `gorm:"type:varchar(255)" json:"serviceName"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	TransactionID string          `gorm:"type:varchar(255);index" json:"transactionId"`
	SessionID     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"sessionId"`
	Status        PaymentStatus   `gorm:"type:varchar(20);index;not null" json:"status"`
	PaidAt        time.Time       `json:"paidAt"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// CheckoutSession is the processor's view of a checkout.
type CheckoutSession struct {
	ID            string          `json:"sessionId"`
	URL           string          `json:"url,omitempty"`
	Paid          bool            `json:"-"`
	Status        string          `json:"status"`
	BookingID     string          `json:"bookId"`
	SenderEmail   string          `json:"senderEmail"`
	ServiceName   string          `json:"serviceName"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
}
