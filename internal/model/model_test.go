package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/carxp/internal/common"
)

func validEntry() Entry {
	return Entry{
		Description: "Troca de oleo",
		Date:        "2024-04-28",
		Amount:      decimal.RequireFromString("120.50"),
		CategoryID:  1,
		CarID:       1,
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		mutate func(*Entry)
		name   string
		field  string
	}{
		{name: "valid", mutate: func(*Entry) {}},
		{name: "zero amount", mutate: func(e *Entry) { e.Amount = decimal.Zero }},
		{name: "timestamp date", mutate: func(e *Entry) { e.Date = "2024-04-28T13:00:00.000Z" }},
		{name: "blank description", mutate: func(e *Entry) { e.Description = "  " }, field: "description"},
		{name: "missing date", mutate: func(e *Entry) { e.Date = "" }, field: "date"},
		{name: "bad date", mutate: func(e *Entry) { e.Date = "28/04/2024" }, field: "date"},
		{name: "negative amount", mutate: func(e *Entry) { e.Amount = decimal.NewFromInt(-1) }, field: "amount"},
		{name: "missing category", mutate: func(e *Entry) { e.CategoryID = 0 }, field: "category"},
		{name: "missing car", mutate: func(e *Entry) { e.CarID = 0 }, field: "car"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(&e)

			err := e.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, common.ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCar_Validate(t *testing.T) {
	require.NoError(t, Car{Model: "gol"}.Validate())
	require.NoError(t, Car{Model: "gol", Plate: "ABC123", Year: 2019}.Validate())
	require.ErrorIs(t, Car{}.Validate(), common.ErrValidation)
	require.ErrorIs(t, Car{Model: "gol", Year: -1}.Validate(), common.ErrValidation)
	assert.Equal(t, "gol", Car{Model: "gol", Plate: "X"}.Label())
}

func TestCategory_Validate(t *testing.T) {
	require.NoError(t, Category{Description: "Combustivel", Type: CategoryTypeExpense}.Validate())
	require.NoError(t, Category{Description: "Corridas", Type: CategoryTypeEarning}.Validate())
	require.ErrorIs(t, Category{Type: CategoryTypeExpense}.Validate(), common.ErrValidation)
	require.ErrorIs(t, Category{Description: "x", Type: 7}.Validate(), common.ErrValidation)
}

func TestParseCategoryType(t *testing.T) {
	for input, want := range map[string]CategoryType{
		"expense": CategoryTypeExpense,
		"0":       CategoryTypeExpense,
		"Earning": CategoryTypeEarning,
		" 1 ":     CategoryTypeEarning,
	} {
		got, err := ParseCategoryType(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseCategoryType("toll")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "type(7)", CategoryType(7).String())
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("EXPENSE")
	require.NoError(t, err)
	assert.Equal(t, KindExpense, kind)
	assert.Equal(t, CategoryTypeExpense, kind.CategoryType())

	kind, err = ParseKind("earning")
	require.NoError(t, err)
	assert.Equal(t, CategoryTypeEarning, kind.CategoryType())

	_, err = ParseKind("refund")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParseDateIn(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := ParseDateIn("2024-04-28", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 28, 0, 0, 0, 0, loc), got)

	// Midnight UTC is still the previous evening in BRT.
	got, err = ParseDateIn("2024-04-28T00:30:00.000Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 27, got.Day())
	assert.Equal(t, loc, got.Location())

	_, err = ParseDateIn("yesterday", loc)
	require.Error(t, err)
}

func TestTransaction_Labels(t *testing.T) {
	fuel, gol := "Combustivel", "gol"
	txn := Transaction{Kind: KindExpense, CategoryLabel: &fuel, CarLabel: &gol}
	assert.Equal(t, "Combustivel", txn.CategoryName())
	assert.Equal(t, "gol", txn.CarName())
	assert.True(t, txn.IsExpense())

	dangling := Transaction{Kind: KindEarning}
	assert.Empty(t, dangling.CategoryName())
	assert.Empty(t, dangling.CarName())
	assert.False(t, dangling.IsExpense())
}
