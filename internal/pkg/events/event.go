package events

import (
	"time"

	"styledeco/internal/domain"
)

type Type string

const (
	BookingCreated       Type = "booking.created"
	BookingPaid          Type = "booking.paid"
	BookingUpdated       Type = "booking.updated"
	BookingDeleted       Type = "booking.deleted"
	BookingAssigned      Type = "booking.assigned"
	BookingUnassigned    Type = "booking.unassigned"
	ProjectStatusChanged Type = "booking.project_status"
	PaymentRecorded      Type = "payment.recorded"
	PaymentCancelled     Type = "payment.cancelled"
)

// Event describes a booking transition. DecoratorEmail on an unassign event
// is the decorator that was removed.
type Event struct {
	Type           Type                  `json:"type"`
	BookingID      string                `json:"bookingId"`
	Status         domain.BookingStatus  `json:"status,omitempty"`
	ProjectStatus  *domain.ProjectStatus `json:"projectStatus,omitempty"`
	DecoratorEmail *string               `json:"decoratorEmail,omitempty"`
	UserEmail      string                `json:"userEmail"`
	At             time.Time             `json:"at"`
}

func FromBooking(t Type, b *domain.Booking) Event {
	return Event{
		Type:           t,
		BookingID:      b.ID,
		Status:         b.Status,
		ProjectStatus:  b.ProjectStatus,
		DecoratorEmail: b.DecoratorEmail,
		UserEmail:      b.UserEmail,
		At:             time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(Event)
}

// Filter reports whether principal may see the event.
type Filter func(domain.Principal, Event) bool

type Discard struct{}

func (Discard) Publish(Event) {}
