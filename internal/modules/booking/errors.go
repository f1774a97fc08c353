package booking

import (
	"fmt"

	"styledeco/internal/domain"
)

var (
	errStatusRollback = fmt.Errorf("%w: a paid booking cannot return to pending", domain.ErrConflict)
	errEmptyPatch     = fmt.Errorf("%w: no fields to update", domain.ErrValidation)
)
