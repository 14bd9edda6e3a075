package model

import (
	"fmt"
	"strings"
)

// CategoryType indicates whether a category groups expenses or earnings.
type CategoryType int

const (
	// CategoryTypeExpense represents categories for expense entries.
	CategoryTypeExpense CategoryType = 0
	// CategoryTypeEarning represents categories for earning entries.
	CategoryTypeEarning CategoryType = 1
)

// String returns the lowercase name used in config files and CLI flags.
func (t CategoryType) String() string {
	switch t {
	case CategoryTypeExpense:
		return "expense"
	case CategoryTypeEarning:
		return "earning"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseCategoryType converts "expense"/"earning" (or "0"/"1") into a CategoryType.
func ParseCategoryType(s string) (CategoryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "0":
		return CategoryTypeExpense, nil
	case "earning", "1":
		return CategoryTypeEarning, nil
	default:
		return 0, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown category type %q", s)}
	}
}

// Category labels an expense or earning.
type Category struct {
	Description string
	ID          int64
	Type        CategoryType
}

// Validate checks the fields a category form must fill before insert.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if c.Type != CategoryTypeExpense && c.Type != CategoryTypeEarning {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown category type %d", c.Type)}
	}
	return nil
}
