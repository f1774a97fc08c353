package identity

import (
	"fmt"

	"styledeco/internal/domain"
)

type Action string

const (
	ActionReadCatalog         Action = "catalog:read"
	ActionWriteCatalog        Action = "catalog:write"
	ActionWriteReview         Action = "review:write"
	ActionCreateBooking       Action = "booking:create"
	ActionReadBooking         Action = "booking:read"
	ActionAdminBooking        Action = "booking:admin"
	ActionAssign              Action = "assignment:assign"
	ActionUpdateProjectStatus Action = "assignment:update_status"
	ActionUnassign            Action = "assignment:unassign"
	ActionCheckout            Action = "payment:checkout"
	ActionReadPayment         Action = "payment:read"
	ActionCancelPayment       Action = "payment:cancel"
	ActionReadEarnings        Action = "payment:earnings"
	ActionReadAnalytics       Action = "analytics:read"
	ActionManageUsers         Action = "users:manage"
)

// Resource carries the ownership facts Authorize needs. OwnerEmail is the
// booking's user or the payment's sender; DecoratorEmail is the decorator
// assigned to the booking involved.
type Resource struct {
	OwnerEmail     string
	DecoratorEmail string
}

func BookingResource(b *domain.Booking) Resource {
	r := Resource{OwnerEmail: b.UserEmail}
	if b.DecoratorEmail != nil {
		r.DecoratorEmail = *b.DecoratorEmail
	}
	return r
}

var userActions = map[Action]bool{
	ActionWriteReview:   true,
	ActionCreateBooking: true,
	ActionReadBooking:   true,
	ActionCheckout:      true,
	ActionReadPayment:   true,
	ActionCancelPayment: true,
}

var decoratorActions = map[Action]bool{
	ActionReadBooking:         true,
	ActionUpdateProjectStatus: true,
	ActionUnassign:            true,
	ActionReadPayment:         true,
	ActionReadEarnings:        true,
}

// Authorize is a pure role check. It returns nil or an ErrForbidden.
func Authorize(p domain.Principal, action Action, res Resource) error {
	if p.IsAdmin() {
		return nil
	}
	if action == ActionReadCatalog {
		return nil
	}
	if p.IsGuest() {
		return deny(p, action)
	}
	if !p.Active {
		return fmt.Errorf("%w: account %s is deactivated", domain.ErrForbidden, p.ID)
	}

	switch p.Role {
	case domain.RoleUser:
		if !userActions[action] {
			return deny(p, action)
		}
		if action == ActionWriteReview {
			return nil
		}
		if res.OwnerEmail != p.ID {
			return deny(p, action)
		}
		return nil
	case domain.RoleDecorator:
		if !decoratorActions[action] {
			return deny(p, action)
		}
		if res.DecoratorEmail != p.ID {
			return deny(p, action)
		}
		return nil
	}
	return deny(p, action)
}

func deny(p domain.Principal, action Action) error {
	return fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, p.Role, action)
}

// CanSee reports whether p may read a booking with the given parties.
func CanSee(p domain.Principal, res Resource) bool {
	return Authorize(p, ActionReadBooking, res) == nil
}
