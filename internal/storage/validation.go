// Package storage provides the SQLite persistence layer for carxp.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/carxp/internal/model"
)

// Parameter errors. These guard programming mistakes, not user input:
// required entry fields are checked by the caller and by table constraints.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidID    = errors.New("id must be positive")
	ErrUnknownKind  = errors.New("unknown entry kind")
	ErrNilParameter = errors.New("parameter cannot be nil")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a row id is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidID, paramName, id)
	}
	return nil
}

// tableFor maps an entry kind to its table.
func tableFor(kind model.Kind) (string, error) {
	switch kind {
	case model.KindExpense:
		return tableExpense, nil
	case model.KindEarning:
		return tableEarning, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
