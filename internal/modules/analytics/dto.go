package analytics

import (
	"github.com/shopspring/decimal"

	"styledeco/internal/repository"
)

type AssignmentRatio struct {
	Assigned   int64   `json:"assigned"`
	Unassigned int64   `json:"unassigned"`
	Ratio      float64 `json:"ratio"`
}

type PaymentStatusRatio struct {
	Paid      int64   `json:"paid"`
	Cancelled int64   `json:"cancelled"`
	PaidRatio float64 `json:"paidRatio"`
}

type Earnings struct {
	DecoratorEmail string                      `json:"decoratorEmail"`
	Total          decimal.Decimal             `json:"total"`
	Payments       int64                       `json:"payments"`
	ByService      []repository.ServiceRevenue `json:"byService"`
}
