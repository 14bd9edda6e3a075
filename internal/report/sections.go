package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/carxp/internal/ledger"
	"github.com/Veraticus/carxp/internal/model"
)

// Section is one month heading of the history view.
type Section struct {
	Total decimal.Decimal
	Key   string // "MM/YYYY", or Unlabeled
	Rows  []model.Transaction
}

// MonthSections groups rows by month, newest month first, rows inside a
// section newest first. The Unlabeled section, if any, comes last.
func MonthSections(rows []model.Transaction) []Section {
	sorted := make([]model.Transaction, len(rows))
	copy(sorted, rows)
	ledger.SortByDateDesc(sorted)

	var sections []Section
	index := make(map[string]int)
	for _, r := range sorted {
		key := MonthKey(r.Date)
		i, ok := index[key]
		if !ok {
			i = len(sections)
			index[key] = i
			sections = append(sections, Section{Key: key, Total: decimal.Zero})
		}
		sections[i].Rows = append(sections[i].Rows, r)
		sections[i].Total = sections[i].Total.Add(r.Amount)
	}
	return sections
}

// CategoryTotal is one slice of the category breakdown.
type CategoryTotal struct {
	Amount   decimal.Decimal
	Share    decimal.Decimal // percentage of the grand total, two decimals
	Category string
}

// Breakdown turns GroupByCategory output into a list ordered by amount,
// largest first, ties broken by name. Shares are zero when the total is zero.
func Breakdown(groups map[string]decimal.Decimal) []CategoryTotal {
	total := decimal.Zero
	for _, amount := range groups {
		total = total.Add(amount)
	}

	out := make([]CategoryTotal, 0, len(groups))
	hundred := decimal.NewFromInt(100)
	for category, amount := range groups {
		share := decimal.Zero
		if !total.IsZero() {
			share = amount.Mul(hundred).DivRound(total, 2)
		}
		out = append(out, CategoryTotal{Category: category, Amount: amount, Share: share})
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
