// Package service defines the contracts the command layer consumes.
package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/carxp/internal/model"
)

// SchemaManager prepares an opened store. Both calls are idempotent and meant
// to run on every start, before anything else touches the store.
type SchemaManager interface {
	EnsureSchema(ctx context.Context) error
	SeedDefaults(ctx context.Context, seed model.Seed) error
	CurrentSchemaVersion(ctx context.Context) (int, error)
}

// RecordStore creates, lists and deletes rows. It does not validate its
// input; callers run the model Validate methods first.
type RecordStore interface {
	InsertCar(ctx context.Context, carModel, plate string, year int) (int64, error)
	InsertCategory(ctx context.Context, description string, categoryType model.CategoryType) (int64, error)
	InsertExpense(ctx context.Context, description, date string, amount decimal.Decimal, categoryID, carID int64) (int64, error)
	InsertEarning(ctx context.Context, description, date string, amount decimal.Decimal, categoryID, carID int64) (int64, error)
	InsertEntry(ctx context.Context, kind model.Kind, e model.Entry) (int64, error)

	GetCars(ctx context.Context) ([]model.Car, error)
	GetCarByID(ctx context.Context, id int64) (*model.Car, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoriesByType(ctx context.Context, categoryType model.CategoryType) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetExpenses(ctx context.Context) ([]model.Entry, error)
	GetEarnings(ctx context.Context) ([]model.Entry, error)

	DeleteExpense(ctx context.Context, id int64) error
	DeleteEarning(ctx context.Context, id int64) error
	DeleteEntry(ctx context.Context, kind model.Kind, id int64) error
}

// TransactionReader serves the merged, labelled view over both entry tables.
type TransactionReader interface {
	GetAllTransactions(ctx context.Context) ([]model.Transaction, error)
	Snapshot(ctx context.Context) (model.Snapshot, error)
}

// Storage is everything a command may need from the store.
type Storage interface {
	SchemaManager
	RecordStore
	TransactionReader
	Path() string
	Close() error
}
