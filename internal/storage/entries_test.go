package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/carxp/internal/common"
	"github.com/Veraticus/carxp/internal/model"
)

type insertFunc func(ctx context.Context, description, date string, amount decimal.Decimal, categoryID, carID int64) (int64, error)

func entryOps(s *SQLiteStorage) map[model.Kind]struct {
	insert insertFunc
	get    func(context.Context) ([]model.Entry, error)
	del    func(context.Context, int64) error
} {
	return map[model.Kind]struct {
		insert insertFunc
		get    func(context.Context) ([]model.Entry, error)
		del    func(context.Context, int64) error
	}{
		model.KindExpense: {insert: s.InsertExpense, get: s.GetExpenses, del: s.DeleteExpense},
		model.KindEarning: {insert: s.InsertEarning, get: s.GetEarnings, del: s.DeleteEarning},
	}
}

func TestSQLiteStorage_EntryRoundTrip(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	carID := mustInsertCar(t, store, "gol")
	catID := mustInsertCategory(t, store, "Combustivel", model.CategoryTypeExpense)

	inputs := []model.Entry{
		{Description: "Troca de oleo", Date: "2024-04-28", Amount: decimal.RequireFromString("120.50"), CategoryID: catID, CarID: carID},
		{Description: "Abastecimento", Date: "2024-04-29T13:00:00.000Z", Amount: decimal.RequireFromString("0.01"), CategoryID: catID, CarID: carID},
		{Description: "Lavagem", Date: "2024-05-01", Amount: decimal.Zero, CategoryID: catID, CarID: carID},
		{Description: "Pneus", Date: "2024-05-02", Amount: decimal.RequireFromString("1999.99"), CategoryID: catID, CarID: carID},
	}

	for kind, ops := range entryOps(store) {
		t.Run(string(kind), func(t *testing.T) {
			seen := make(map[int64]bool)
			for _, in := range inputs {
				id, err := ops.insert(ctx, in.Description, in.Date, in.Amount, in.CategoryID, in.CarID)
				require.NoError(t, err)
				assert.False(t, seen[id], "id %d reused", id)
				seen[id] = true
			}

			got, err := ops.get(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(inputs))

			for i, in := range inputs {
				assert.True(t, seen[got[i].ID])
				assert.Equal(t, in.Description, got[i].Description)
				assert.Equal(t, in.Date, got[i].Date, "date is stored as supplied")
				assert.True(t, in.Amount.Equal(got[i].Amount), "amount %s != %s", in.Amount, got[i].Amount)
				assert.Equal(t, in.CategoryID, got[i].CategoryID)
				assert.Equal(t, in.CarID, got[i].CarID)
			}
		})
	}
}

func TestSQLiteStorage_EntryTablesAreSeparate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.InsertExpense(ctx, "Pedagio", "2024-04-28", decimal.NewFromInt(8), 1, 1)
	require.NoError(t, err)

	earnings, err := store.GetEarnings(ctx)
	require.NoError(t, err)
	assert.Empty(t, earnings)

	expenses, err := store.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}

func TestSQLiteStorage_DeleteEntry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	for kind, ops := range entryOps(store) {
		t.Run(string(kind), func(t *testing.T) {
			keep, err := ops.insert(ctx, "keep", "2024-04-01", decimal.NewFromInt(10), 1, 1)
			require.NoError(t, err)
			drop, err := ops.insert(ctx, "drop", "2024-04-02", decimal.NewFromInt(20), 1, 1)
			require.NoError(t, err)

			require.NoError(t, ops.del(ctx, drop))

			got, err := ops.get(ctx)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, keep, got[0].ID)

			assert.NoError(t, ops.del(ctx, drop), "second delete is a no-op")
			assert.NoError(t, ops.del(ctx, 12345), "unknown id is a no-op")

			got, err = ops.get(ctx)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestSQLiteStorage_IDsNotReusedAfterDelete(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first, err := store.InsertExpense(ctx, "a", "2024-04-01", decimal.NewFromInt(1), 1, 1)
	require.NoError(t, err)
	last, err := store.InsertExpense(ctx, "b", "2024-04-01", decimal.NewFromInt(1), 1, 1)
	require.NoError(t, err)
	require.NoError(t, store.DeleteExpense(ctx, last))

	next, err := store.InsertExpense(ctx, "c", "2024-04-01", decimal.NewFromInt(1), 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first, next)
	assert.NotEqual(t, last, next)
}

func TestSQLiteStorage_EntryConstraints(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		name        string
		description string
		date        string
		amount      decimal.Decimal
		categoryID  int64
		carID       int64
	}{
		{name: "empty description", description: "", date: "2024-04-28", amount: decimal.NewFromInt(1), categoryID: 1, carID: 1},
		{name: "empty date", description: "x", date: "", amount: decimal.NewFromInt(1), categoryID: 1, carID: 1},
		{name: "negative amount", description: "x", date: "2024-04-28", amount: decimal.NewFromInt(-5), categoryID: 1, carID: 1},
		{name: "missing category", description: "x", date: "2024-04-28", amount: decimal.NewFromInt(1), categoryID: 0, carID: 1},
		{name: "missing car", description: "x", date: "2024-04-28", amount: decimal.NewFromInt(1), categoryID: 1, carID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for kind, ops := range entryOps(store) {
				_, err := ops.insert(ctx, tt.description, tt.date, tt.amount, tt.categoryID, tt.carID)
				require.Error(t, err, kind)
				assert.ErrorIs(t, err, common.ErrQuery, kind)
				assert.ErrorIs(t, err, common.ErrConstraint, kind)
			}
		})
	}

	expenses, err := store.GetExpenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, expenses, "rejected rows are not stored")
}

func TestSQLiteStorage_DanglingReferencesAccepted(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.InsertEarning(ctx, "Corrida", "2024-04-28", decimal.NewFromInt(40), 77, 88)
	require.NoError(t, err)

	earnings, err := store.GetEarnings(ctx)
	require.NoError(t, err)
	require.Len(t, earnings, 1)
	assert.Equal(t, id, earnings[0].ID)
	assert.Equal(t, int64(77), earnings[0].CategoryID)
	assert.Equal(t, int64(88), earnings[0].CarID)
}

func TestSQLiteStorage_InsertEntry(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	e := model.Entry{Description: "Revisao", Date: "2024-06-01", Amount: decimal.RequireFromString("450.75"), CategoryID: 1, CarID: 1}
	id, err := store.InsertEntry(ctx, model.KindEarning, e)
	require.NoError(t, err)

	earnings, err := store.GetEarnings(ctx)
	require.NoError(t, err)
	require.Len(t, earnings, 1)
	assert.Equal(t, e.Description, earnings[0].Description)
	assert.Equal(t, id, earnings[0].ID)

	_, err = store.InsertEntry(ctx, model.Kind("refund"), e)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.ErrorIs(t, store.DeleteEntry(ctx, model.Kind("refund"), id), ErrUnknownKind)
}
