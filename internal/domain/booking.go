package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending BookingStatus = "pending"
	BookingPaid    BookingStatus = "paid"
)

type ProjectStatus string

const (
	ProjectAssigned       ProjectStatus = "Assigned"
	ProjectPlanning       ProjectStatus = "Planning"
	ProjectMaterialsReady ProjectStatus = "Materials Ready"
	ProjectOnTheWay       ProjectStatus = "On The Way"
	ProjectSetup          ProjectStatus = "Setup"
	ProjectCompleted      ProjectStatus = "Completed"
)

// ProjectStatuses lists the fixed progression. Decorators may move to any
// of them in any order.
var ProjectStatuses = []ProjectStatus{
	ProjectAssigned,
	ProjectPlanning,
	ProjectMaterialsReady,
	ProjectOnTheWay,
	ProjectSetup,
	ProjectCompleted,
}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, ps := range ProjectStatuses {
		if string(ps) == s {
			return ps, nil
		}
	}
	return "", fmt.Errorf("%w: unknown project status %q", ErrValidation, s)
}

type Booking struct {
	ID                string          `json:"_id"`
	UserEmail         string          `json:"userEmail"`
	ServiceID         string          `json:"serviceId"`
	ServiceName       string          `json:"serviceName"`
	Cost              decimal.Decimal `json:"cost"`
	BookedAt          time.Time       `json:"bookedAt"`
	Status            BookingStatus   `json:"status"`
	DecoratorAssigned bool            `json:"decoratorAssigned"`
	DecoratorEmail    *string         `json:"decoratorEmail"`
	ProjectStatus     *ProjectStatus  `json:"projectStatus"`
	Version           int64           `json:"version"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (b *Booking) AssignedTo(email string) bool {
	return b.DecoratorAssigned && b.DecoratorEmail != nil && *b.DecoratorEmail == email
}

// CheckInvariant reports a conflict when an assignment exists on a booking
// that is not paid, or the assignment fields disagree.
func (b *Booking) CheckInvariant() error {
	if b.DecoratorEmail != nil && !b.DecoratorAssigned {
		return fmt.Errorf("%w: decorator email set on unassigned booking", ErrConflict)
	}
	if b.DecoratorAssigned && b.Status != BookingPaid {
		return fmt.Errorf("%w: booking must be paid before a decorator is assigned", ErrConflict)
	}
	if b.ProjectStatus != nil && !b.DecoratorAssigned {
		return fmt.Errorf("%w: project status requires an assigned decorator", ErrConflict)
	}
	return nil
}
