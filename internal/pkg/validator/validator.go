package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"styledeco/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	RegisterTypes(validate)
}

// RegisterTypes teaches v to compare decimal amounts with numeric tags such
// as gt=0. It is also applied to gin's binding engine.
func RegisterTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// Check validates v and folds any failures into a single ErrValidation.
func Check(v interface{}) error {
	fields := Validate(v)
	if len(fields) == 0 {
		return nil
	}

	parts := make([]string, 0, len(fields))
	for field, tag := range fields {
		parts = append(parts, field+" ("+tag+")")
	}
	sort.Strings(parts)
	return fmt.Errorf("%w: invalid %s", domain.ErrValidation, strings.Join(parts, ", "))
}
