package model

import "strings"

// Car is a vehicle that expenses and earnings are recorded against.
// Plate and Year are optional; Year is zero when unknown.
type Car struct {
	Model string
	Plate string
	ID    int64
	Year  int
}

// Validate checks the fields a car form must fill before insert.
func (c Car) Validate() error {
	if strings.TrimSpace(c.Model) == "" {
		return &ValidationError{Field: "model", Reason: "is required"}
	}
	if c.Year < 0 {
		return &ValidationError{Field: "year", Reason: "cannot be negative"}
	}
	return nil
}

// Label is the human-readable name used in transaction listings.
func (c Car) Label() string {
	return c.Model
}
