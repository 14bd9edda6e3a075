// Package ledger turns the expense and earning tables into one list of
// labelled transactions and narrows that list with the history filters.
//
// Everything here works on already-loaded data. Nothing touches the store.
package ledger

import (
	"sort"
	"time"

	"github.com/Veraticus/carxp/internal/model"
)

// Merge unions the snapshot's expenses and earnings and resolves each row's
// category and car label. A reference to a row that is not in the snapshot
// leaves the label nil.
//
// Expenses come first, then earnings, each in the order given. Callers that
// need a particular order sort afterwards.
func Merge(snap model.Snapshot) []model.Transaction {
	categories := make(map[int64]string, len(snap.Categories))
	for _, c := range snap.Categories {
		categories[c.ID] = c.Description
	}

	cars := make(map[int64]string, len(snap.Cars))
	for _, c := range snap.Cars {
		cars[c.ID] = c.Label()
	}

	out := make([]model.Transaction, 0, len(snap.Expenses)+len(snap.Earnings))
	out = appendLabelled(out, snap.Expenses, model.KindExpense, categories, cars)
	out = appendLabelled(out, snap.Earnings, model.KindEarning, categories, cars)
	return out
}

func appendLabelled(out []model.Transaction, entries []model.Entry, kind model.Kind, categories, cars map[int64]string) []model.Transaction {
	for _, e := range entries {
		out = append(out, model.Transaction{
			Entry:         e,
			Kind:          kind,
			CategoryLabel: lookup(categories, e.CategoryID),
			CarLabel:      lookup(cars, e.CarID),
		})
	}
	return out
}

func lookup(labels map[int64]string, id int64) *string {
	label, ok := labels[id]
	if !ok {
		return nil
	}
	return &label
}

// SortByDateDesc orders rows newest first, the way the history view lists
// them. Rows on the same date keep their relative order. Rows whose date does
// not parse sink to the end.
func SortByDateDesc[T Filterable](rows []T) {
	keys := make([]dated[T], len(rows))
	for i, r := range rows {
		t, err := model.ParseDate(r.EntryDate())
		keys[i] = dated[T]{row: r, at: t, valid: err == nil}
	}

	sort.SliceStable(keys, func(a, b int) bool {
		if keys[a].valid != keys[b].valid {
			return keys[a].valid
		}
		return keys[a].at.After(keys[b].at)
	})

	for i, k := range keys {
		rows[i] = k.row
	}
}

type dated[T any] struct {
	row   T
	at    time.Time
	valid bool
}
