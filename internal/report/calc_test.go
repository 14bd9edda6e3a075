package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/carxp/internal/model"
)

func label(s string) *string { return &s }

func txn(kind model.Kind, category *string, date, amount string) model.Transaction {
	return model.Transaction{
		Kind:          kind,
		CategoryLabel: category,
		Entry: model.Entry{
			Description: "row",
			Date:        date,
			Amount:      decimal.RequireFromString(amount),
			CategoryID:  1,
			CarID:       1,
		},
	}
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		txn(model.KindExpense, label("Combustível"), "2024-04-28", "120.50"),
		txn(model.KindExpense, label("Combustível"), "2024-04-02", "80.25"),
		txn(model.KindExpense, label("Manutenção"), "2024-03-15", "300"),
		txn(model.KindExpense, nil, "2024-03-01", "15.10"),
		txn(model.KindEarning, label("Corridas"), "2024-04-30", "500"),
		txn(model.KindExpense, label("Multas"), "garbage", "0.15"),
		txn(model.KindExpense, label("Impostos"), "2023-12-31T23:00:00Z", "99.99"),
	}
}

func sumMap(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

func TestSumAmounts(t *testing.T) {
	tests := []struct {
		name string
		rows []model.Transaction
		want string
	}{
		{name: "empty", rows: nil, want: "0"},
		{name: "single", rows: []model.Transaction{txn(model.KindExpense, nil, "2024-04-28", "120.50")}, want: "120.5"},
		{name: "exact decimal arithmetic", rows: []model.Transaction{
			txn(model.KindExpense, nil, "2024-04-28", "0.1"),
			txn(model.KindExpense, nil, "2024-04-28", "0.2"),
		}, want: "0.3"},
		{name: "sample", rows: sampleTransactions(), want: "1115.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SumAmounts(tt.rows)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestSumAmounts_Entries(t *testing.T) {
	entries := []model.Entry{
		{Amount: decimal.RequireFromString("120.50")},
		{Amount: decimal.RequireFromString("9.50")},
	}
	assert.Equal(t, "130.00", SumAmounts(entries).StringFixed(2))
}

func TestGroupByCategory(t *testing.T) {
	groups := GroupByCategory(sampleTransactions())

	want := map[string]string{
		"Combustível": "200.75",
		"Manutenção":  "300",
		"Corridas":    "500",
		"Multas":      "0.15",
		"Impostos":    "99.99",
		Unlabeled:     "15.10",
	}
	require.Len(t, groups, len(want))
	for k, v := range want {
		assert.True(t, decimal.RequireFromString(v).Equal(groups[k]), "%s: got %s want %s", k, groups[k], v)
	}
}

func TestGroupByMonth(t *testing.T) {
	groups := GroupByMonth(sampleTransactions())

	assert.True(t, decimal.RequireFromString("700.75").Equal(groups["04/2024"]), "got %s", groups["04/2024"])
	assert.True(t, decimal.RequireFromString("315.10").Equal(groups["03/2024"]), "got %s", groups["03/2024"])
	assert.True(t, decimal.RequireFromString("0.15").Equal(groups[Unlabeled]))
	assert.Contains(t, groups, MonthKey("2023-12-31T23:00:00Z"))
}

func TestPartitionSumInvariant(t *testing.T) {
	inputs := map[string][]model.Transaction{
		"empty":  nil,
		"sample": sampleTransactions(),
		"one":    {txn(model.KindEarning, nil, "2024-01-01", "42.42")},
		"same bucket": {
			txn(model.KindExpense, label("A"), "2024-01-01", "1.11"),
			txn(model.KindExpense, label("A"), "2024-01-31", "2.22"),
		},
	}

	for name, rows := range inputs {
		t.Run(name, func(t *testing.T) {
			total := SumAmounts(rows)
			assert.True(t, total.Equal(sumMap(GroupByCategory(rows))), "category buckets")
			assert.True(t, total.Equal(sumMap(GroupByMonth(rows))), "month buckets")
		})
	}
}

func TestCalculatorsAreDeterministic(t *testing.T) {
	rows := sampleTransactions()
	reversed := make([]model.Transaction, len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}

	assert.True(t, SumAmounts(rows).Equal(SumAmounts(reversed)))
	assert.Equal(t, stringify(GroupByCategory(rows)), stringify(GroupByCategory(reversed)))
	assert.Equal(t, stringify(GroupByMonth(rows)), stringify(GroupByMonth(reversed)))
	assert.Equal(t, stringify(GroupByMonth(rows)), stringify(GroupByMonth(rows)))
}

func stringify(m map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "04/2024", MonthKey("2024-04-28"))
	assert.Equal(t, "12/2023", MonthKey("2023-12-01"))
	assert.Equal(t, Unlabeled, MonthKey(""))
	assert.Equal(t, Unlabeled, MonthKey("28/04/2024"))
}

func TestFuelSplit(t *testing.T) {
	rows := sampleTransactions()

	fuel, other := FuelSplit(rows, "combustível ")
	assert.Equal(t, "200.75", fuel.StringFixed(2))
	assert.True(t, SumAmounts(rows).Sub(fuel).Equal(other))

	fuel, other = FuelSplit(rows, "Gasolina")
	assert.True(t, fuel.IsZero())
	assert.True(t, SumAmounts(rows).Equal(other))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTransactions())

	assert.Equal(t, 7, s.Count)
	assert.Equal(t, "615.99", s.Expenses.StringFixed(2))
	assert.Equal(t, "500.00", s.Earnings.StringFixed(2))
	assert.Equal(t, "-115.99", s.Net.StringFixed(2))

	empty := Summarize(nil)
	assert.True(t, empty.Net.IsZero())
	assert.Equal(t, 0, empty.Count)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "120.50", FormatAmount(decimal.RequireFromString("120.5")))
	assert.Equal(t, "0.00", FormatAmount(decimal.Zero))
	assert.Equal(t, "1.01", FormatAmount(decimal.RequireFromString("1.005")))

	assert.Equal(t, "28/04/2024", FormatDate("2024-04-28"))
	assert.Equal(t, "01/12/2023", FormatDate("2023-12-01"))
	assert.Equal(t, "not a date", FormatDate("not a date"))
}
