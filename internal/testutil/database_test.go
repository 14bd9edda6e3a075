package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/carxp/internal/model"
)

func TestSetupTestDB(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	version, err := db.Storage.CurrentSchemaVersion(ctx)
	require.NoError(t, err)
	assert.Positive(t, version)

	cars, err := db.Storage.GetCars(ctx)
	require.NoError(t, err)
	assert.Empty(t, cars, "nothing seeded by default")
}

func TestTestDB_Fixtures(t *testing.T) {
	db := SetupTestDB(t).Seed()
	ctx := context.Background()

	car := db.WithCar("gol")
	rides := db.WithCategory("Corridas", model.CategoryTypeEarning)
	db.WithExpense("Troca de oleo", "2024-04-28", "120.50", 1, car)
	db.WithEarning("Uber", "2024-04-29", "80", rides, car)

	cars, err := db.Storage.GetCars(ctx)
	require.NoError(t, err)
	assert.Len(t, cars, 2)

	txns, err := db.Storage.GetAllTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Combustível", txns[0].CategoryName())
	assert.Equal(t, "gol", txns[1].CarName())
}
