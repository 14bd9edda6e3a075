package model

import (
	"fmt"

	"github.com/Veraticus/carxp/internal/common"
)

// ValidationError reports a required field that is missing or malformed.
// It matches common.ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", common.ErrValidation, e.Field, e.Reason)
}

// Is lets errors.Is(err, common.ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}
