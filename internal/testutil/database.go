// Package testutil provides test fixtures for packages that consume the store.
package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/carxp/internal/model"
	"github.com/Veraticus/carxp/internal/service"
	"github.com/Veraticus/carxp/internal/storage"
)

// TestDB is an in-memory store with the schema in place.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database. The schema is created
// but nothing is seeded; use the With* helpers or Seed.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	car := db.WithCar("gol")
//	fuel := db.WithCategory("Combustivel", model.CategoryTypeExpense)
//	db.WithExpense("Troca de oleo", "2024-04-28", "120.50", fuel, car)
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(storage.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// Seed inserts the default car and category.
func (db *TestDB) Seed() *TestDB {
	db.t.Helper()
	if err := db.Storage.SeedDefaults(context.Background(), storage.DefaultSeed()); err != nil {
		db.t.Fatalf("failed to seed defaults: %v", err)
	}
	return db
}

// WithCar inserts a car and returns its id.
func (db *TestDB) WithCar(carModel string) int64 {
	db.t.Helper()
	id, err := db.Storage.InsertCar(context.Background(), carModel, "", 0)
	if err != nil {
		db.t.Fatalf("failed to insert car %q: %v", carModel, err)
	}
	return id
}

// WithCategory inserts a category and returns its id.
func (db *TestDB) WithCategory(description string, categoryType model.CategoryType) int64 {
	db.t.Helper()
	id, err := db.Storage.InsertCategory(context.Background(), description, categoryType)
	if err != nil {
		db.t.Fatalf("failed to insert category %q: %v", description, err)
	}
	return id
}

// WithExpense inserts an expense and returns its id. amount is a decimal string.
func (db *TestDB) WithExpense(description, date, amount string, categoryID, carID int64) int64 {
	db.t.Helper()
	return db.withEntry(model.KindExpense, description, date, amount, categoryID, carID)
}

// WithEarning inserts an earning and returns its id. amount is a decimal string.
func (db *TestDB) WithEarning(description, date, amount string, categoryID, carID int64) int64 {
	db.t.Helper()
	return db.withEntry(model.KindEarning, description, date, amount, categoryID, carID)
}

func (db *TestDB) withEntry(kind model.Kind, description, date, amount string, categoryID, carID int64) int64 {
	db.t.Helper()
	value, err := decimal.NewFromString(amount)
	if err != nil {
		db.t.Fatalf("bad amount %q: %v", amount, err)
	}

	id, err := db.Storage.InsertEntry(context.Background(), kind, model.Entry{
		Description: description,
		Date:        date,
		Amount:      value,
		CategoryID:  categoryID,
		CarID:       carID,
	})
	if err != nil {
		db.t.Fatalf("failed to insert %s %q: %v", kind, description, err)
	}
	return id
}
