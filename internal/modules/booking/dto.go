package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	ServiceID string     `json:"serviceId" binding:"required"`
	BookedAt  *time.Time `json:"bookedAt"`
}

// AdminUpdateRequest is a partial patch. Absent fields are left alone.
type AdminUpdateRequest struct {
	Status        *string          `json:"status" validate:"omitempty,oneof=pending paid"`
	ServiceName   *string          `json:"serviceName" validate:"omitempty,min=1"`
	Cost          *decimal.Decimal `json:"cost" validate:"omitempty,gt=0"`
	ProjectStatus *string          `json:"projectStatus"`
}

func (r AdminUpdateRequest) empty() bool {
	return r.Status == nil && r.ServiceName == nil && r.Cost == nil && r.ProjectStatus == nil
}
