package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind distinguishes the two parallel entry tables.
type Kind string

const (
	// KindExpense marks a row of the expense table.
	KindExpense Kind = "expense"
	// KindEarning marks a row of the earning table.
	KindEarning Kind = "earning"
)

// ParseKind converts a flag value into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindExpense:
		return KindExpense, nil
	case KindEarning:
		return KindEarning, nil
	default:
		return "", &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown entry kind %q", s)}
	}
}

// CategoryType returns the category type that entries of this kind are filed under.
func (k Kind) CategoryType() CategoryType {
	if k == KindEarning {
		return CategoryTypeEarning
	}
	return CategoryTypeExpense
}

// DateLayout is the ISO-8601 calendar date format entries are written with.
const DateLayout = "2006-01-02"

// Entry is a single expense or earning row. Both tables share this shape.
// Date keeps the ISO-8601 string exactly as it was supplied.
type Entry struct {
	Amount      decimal.Decimal
	Description string
	Date        string
	ID          int64
	CategoryID  int64
	CarID       int64
}

// Validate checks the required fields an entry form must fill before insert:
// description, a parseable date, a non-negative amount, a category and a car.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return &ValidationError{Field: "description", Reason: "is required"}
	}
	if strings.TrimSpace(e.Date) == "" {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if _, err := ParseDate(e.Date); err != nil {
		return &ValidationError{Field: "date", Reason: err.Error()}
	}
	if e.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Reason: "cannot be negative"}
	}
	if e.CategoryID <= 0 {
		return &ValidationError{Field: "category", Reason: "is required"}
	}
	if e.CarID <= 0 {
		return &ValidationError{Field: "car", Reason: "is required"}
	}
	return nil
}

// EntryDate returns the stored date string.
func (e Entry) EntryDate() string { return e.Date }

// EntryAmount returns the amount.
func (e Entry) EntryAmount() decimal.Decimal { return e.Amount }

// CarRef returns the referenced car id.
func (e Entry) CarRef() int64 { return e.CarID }

// CategoryRef returns the referenced category id.
func (e Entry) CategoryRef() int64 { return e.CategoryID }

// ParseDate reads an ISO-8601 date. Calendar dates (2024-04-28) are placed at
// midnight in the local zone; full timestamps (2024-04-28T13:00:00.000Z) keep
// their instant and are converted to local time.
func ParseDate(s string) (time.Time, error) {
	return ParseDateIn(s, time.Local)
}

// ParseDateIn is ParseDate with an explicit zone.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", s)
}
