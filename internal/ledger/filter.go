package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/carxp/internal/model"
)

// Period selects a time window relative to now.
type Period string

// The closed set of periods the history and report views offer.
const (
	PeriodAll          Period = "all"
	PeriodLastMonth    Period = "lastMonth"
	PeriodLast3Months  Period = "last3Months"
	PeriodLast6Months  Period = "last6Months"
	PeriodLastYear     Period = "lastYear"
	PeriodCurrentMonth Period = "currentMonth"
)

// ErrUnknownPeriod is returned by ParsePeriod for names outside the closed set.
var ErrUnknownPeriod = errors.New("unknown period")

// Periods lists every valid period in menu order.
func Periods() []Period {
	return []Period{
		PeriodAll,
		PeriodLastMonth,
		PeriodLast3Months,
		PeriodLast6Months,
		PeriodLastYear,
		PeriodCurrentMonth,
	}
}

// ParsePeriod matches s case-insensitively against the known periods.
// An empty string means PeriodAll.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PeriodAll, nil
	}
	for _, p := range Periods() {
		if strings.EqualFold(string(p), s) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Filterable is satisfied by model.Entry and model.Transaction.
type Filterable interface {
	EntryDate() string
	CarRef() int64
	CategoryRef() int64
}

// Filter holds the active predicates. Zero fields are inactive, so the zero
// Filter keeps every row.
type Filter struct {
	Period     Period
	CarID      int64
	CategoryID int64
	Month      int // 1-12
	Year       int
	Day        int // 1-31
}

// Validate rejects out-of-range calendar fields and unknown periods.
func (f Filter) Validate() error {
	if f.Period != "" {
		if _, err := ParsePeriod(string(f.Period)); err != nil {
			return err
		}
	}
	if f.Month < 0 || f.Month > 12 {
		return &model.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	if f.Day < 0 || f.Day > 31 {
		return &model.ValidationError{Field: "day", Reason: "must be between 1 and 31"}
	}
	if f.Year < 0 {
		return &model.ValidationError{Field: "year", Reason: "cannot be negative"}
	}
	if f.CarID < 0 {
		return &model.ValidationError{Field: "car", Reason: "cannot be negative"}
	}
	if f.CategoryID < 0 {
		return &model.ValidationError{Field: "category", Reason: "cannot be negative"}
	}
	return nil
}

// needsDate reports whether any active predicate looks at the row's date.
func (f Filter) needsDate() bool {
	return (f.Period != "" && f.Period != PeriodAll) || f.Month != 0 || f.Year != 0 || f.Day != 0
}

// Window returns the half-open interval [from, to) selected by the period.
// ok is false for PeriodAll, which has no bounds. to is the zero time for the
// sliding windows, which are open-ended.
//
// Sliding windows start at midnight of now shifted back by N months (or a
// year), so a row dated exactly that day is kept. currentMonth runs from the
// first of this month up to the first of the next.
func Window(p Period, now time.Time) (from, to time.Time, ok bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodLastMonth:
		return today.AddDate(0, -1, 0), time.Time{}, true
	case PeriodLast3Months:
		return today.AddDate(0, -3, 0), time.Time{}, true
	case PeriodLast6Months:
		return today.AddDate(0, -6, 0), time.Time{}, true
	case PeriodLastYear:
		return today.AddDate(-1, 0, 0), time.Time{}, true
	case PeriodCurrentMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Apply returns the rows that satisfy every active predicate of f, in their
// original order. now anchors the period windows; pass time.Now() outside
// tests. A row whose date does not parse fails every date predicate.
func Apply[T Filterable](rows []T, f Filter, now time.Time) []T {
	from, to, windowed := Window(f.Period, now)
	needsDate := f.needsDate()

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if f.CarID != 0 && r.CarRef() != f.CarID {
			continue
		}
		if f.CategoryID != 0 && r.CategoryRef() != f.CategoryID {
			continue
		}

		if needsDate {
			d, err := model.ParseDateIn(r.EntryDate(), now.Location())
			if err != nil {
				continue
			}
			if windowed {
				if d.Before(from) {
					continue
				}
				if !to.IsZero() && !d.Before(to) {
					continue
				}
			}
			if f.Year != 0 && d.Year() != f.Year {
				continue
			}
			if f.Month != 0 && int(d.Month()) != f.Month {
				continue
			}
			if f.Day != 0 && d.Day() != f.Day {
				continue
			}
		}

		out = append(out, r)
	}
	return out
}
