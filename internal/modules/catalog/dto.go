package catalog

import "github.com/shopspring/decimal"

type CreateServiceRequest struct {
	Name           string          `json:"service_name" validate:"required"`
	Cost           decimal.Decimal `json:"cost" validate:"gt=0"`
	Unit           string          `json:"unit"`
	Category       string          `json:"service_category" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	Image          string          `json:"image" validate:"required"`
	CreatedByEmail string          `json:"createdByEmail"`
}

// UpdateServiceRequest applies only the fields that are present.
type UpdateServiceRequest struct {
	Name        *string          `json:"service_name" validate:"omitempty,min=1"`
	Cost        *decimal.Decimal `json:"cost" validate:"omitempty,gt=0"`
	Unit        *string          `json:"unit"`
	Category    *string          `json:"service_category" validate:"omitempty,min=1"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Image       *string          `json:"image" validate:"omitempty,min=1"`
}

func (r UpdateServiceRequest) columns() map[string]any {
	fields := map[string]any{}
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Cost != nil {
		fields["cost"] = *r.Cost
	}
	if r.Unit != nil {
		fields["unit"] = *r.Unit
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Image != nil {
		fields["image"] = *r.Image
	}
	return fields
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}
