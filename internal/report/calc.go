// Package report holds the calculators behind the history and report views.
// Every function is pure: same input, same output, no store access.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/carxp/internal/model"
)

// Unlabeled is the bucket for rows without a category label or a readable date.
const Unlabeled = "(unlabeled)"

// Amounted is satisfied by model.Entry and model.Transaction.
type Amounted interface {
	EntryAmount() decimal.Decimal
}

// Dated is satisfied by model.Entry and model.Transaction.
type Dated interface {
	Amounted
	EntryDate() string
}

// SumAmounts adds up every row's amount.
func SumAmounts[T Amounted](rows []T) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.EntryAmount())
	}
	return total
}

// GroupByCategory sums amounts per category label. Rows with a nil label are
// summed under Unlabeled.
func GroupByCategory(rows []model.Transaction) map[string]decimal.Decimal {
	groups := make(map[string]decimal.Decimal)
	for _, r := range rows {
		key := Unlabeled
		if r.CategoryLabel != nil {
			key = *r.CategoryLabel
		}
		groups[key] = groups[key].Add(r.Amount)
	}
	return groups
}

// GroupByMonth sums amounts per calendar month of each row's own date, keyed
// "MM/YYYY". Rows whose date does not parse are summed under Unlabeled.
func GroupByMonth[T Dated](rows []T) map[string]decimal.Decimal {
	groups := make(map[string]decimal.Decimal)
	for _, r := range rows {
		key := MonthKey(r.EntryDate())
		groups[key] = groups[key].Add(r.EntryAmount())
	}
	return groups
}

// MonthKey returns the "MM/YYYY" bucket for an ISO date, or Unlabeled.
func MonthKey(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return Unlabeled
	}
	return fmt.Sprintf("%02d/%d", int(t.Month()), t.Year())
}

// FuelSplit separates rows filed under fuelLabel from everything else. The
// label match ignores case and surrounding spaces; rows with no label count
// as other.
func FuelSplit(rows []model.Transaction, fuelLabel string) (fuel, other decimal.Decimal) {
	fuel, other = decimal.Zero, decimal.Zero
	want := strings.TrimSpace(fuelLabel)
	for _, r := range rows {
		if r.CategoryLabel != nil && strings.EqualFold(strings.TrimSpace(*r.CategoryLabel), want) {
			fuel = fuel.Add(r.Amount)
			continue
		}
		other = other.Add(r.Amount)
	}
	return fuel, other
}

// Summary totals a transaction list by kind.
type Summary struct {
	Expenses decimal.Decimal
	Earnings decimal.Decimal
	Net      decimal.Decimal // Earnings minus Expenses
	Count    int
}

// Summarize totals expenses and earnings separately.
func Summarize(rows []model.Transaction) Summary {
	s := Summary{
		Expenses: decimal.Zero,
		Earnings: decimal.Zero,
		Count:    len(rows),
	}
	for _, r := range rows {
		if r.IsExpense() {
			s.Expenses = s.Expenses.Add(r.Amount)
		} else {
			s.Earnings = s.Earnings.Add(r.Amount)
		}
	}
	s.Net = s.Earnings.Sub(s.Expenses)
	return s
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate renders an ISO date as dd/mm/yyyy. Unparseable input is returned
// unchanged.
func FormatDate(date string) string {
	t, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
