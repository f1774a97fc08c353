package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a decoration offering in the catalog.
type Service struct {
	ID          string          `json:"_id"`
	Name        string          `json:"service_name"`
	Cost        decimal.Decimal `json:"cost"`
	Unit        string          `json:"unit"`
	Category    string          `json:"service_category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	CreatedBy   string          `json:"createdByEmail"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
