package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/carxp/internal/model"
)

// DefaultSeed returns the car and category inserted into an empty database.
func DefaultSeed() model.Seed {
	return model.Seed{
		Car: model.Car{
			Model: "Toyota Corolla",
			Plate: "ABC123",
			Year:  2022,
		},
		Category: model.Category{
			Description: "Combustível",
			Type:        model.CategoryTypeExpense,
		},
	}
}

// SeedDefaults inserts seed.Car when the car table is empty and seed.Category
// when the category table is empty. Tables that already hold rows are left
// alone, so repeated starts never duplicate the defaults.
//
// Failures are returned as *SchemaError values joined together.
func (s *SQLiteStorage) SeedDefaults(ctx context.Context, seed model.Seed) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var errs []error

	if err := s.seedTable(ctx, tableCar, func(tx *sql.Tx) (int64, error) {
		return insertCar(ctx, tx, seed.Car.Model, seed.Car.Plate, seed.Car.Year)
	}); err != nil {
		errs = append(errs, &SchemaError{Table: tableCar, Err: err})
	}

	if err := s.seedTable(ctx, tableCategory, func(tx *sql.Tx) (int64, error) {
		return insertCategory(ctx, tx, seed.Category.Description, seed.Category.Type)
	}); err != nil {
		errs = append(errs, &SchemaError{Table: tableCategory, Err: err})
	}

	for _, err := range errs {
		slog.Error("failed to seed defaults", "error", err)
	}
	return errors.Join(errs...)
}

// seedTable runs insert inside the same transaction that found table empty.
func (s *SQLiteStorage) seedTable(ctx context.Context, table string, insert func(*sql.Tx) (int64, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	// #nosec G201 - table is one of the package constants
	if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if count > 0 {
		slog.Debug("seed skipped, table not empty", "table", table, "rows", count)
		return nil
	}

	id, err := insert(tx)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	slog.Info("seeded default row", "table", table, "id", id)
	return nil
}
