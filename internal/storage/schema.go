package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/carxp/internal/common"
)

// SchemaVersion is recorded in PRAGMA user_version once every table exists.
const SchemaVersion = 1

const (
	tableCar      = "car"
	tableCategory = "category"
	tableExpense  = "expense"
	tableEarning  = "earning"
)

// SchemaError reports a table that could not be created or seeded.
// It matches common.ErrSchema with errors.Is.
type SchemaError struct {
	Err   error
	Table string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: table %q: %v", common.ErrSchema, e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, common.ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == common.ErrSchema
}

// tableDefinition is the DDL for one table and its indexes.
type tableDefinition struct {
	Name       string
	Statements []string
}

func entryTableDDL(name string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT NOT NULL CHECK (description <> ''),
			date TEXT NOT NULL CHECK (date <> ''),
			amount NUMERIC NOT NULL CHECK (amount >= 0),
			category_id INTEGER NOT NULL CHECK (category_id > 0),
			car_id INTEGER NOT NULL CHECK (car_id > 0),
			FOREIGN KEY (category_id) REFERENCES category(id),
			FOREIGN KEY (car_id) REFERENCES car(id)
		)`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_date ON %s(date)`, name, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_car ON %s(car_id)`, name, name),
	}
}

var tables = []tableDefinition{
	{
		Name: tableCar,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS car (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				model TEXT NOT NULL CHECK (model <> ''),
				plate TEXT,
				year INTEGER
			)`,
		},
	},
	{
		Name: tableCategory,
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS category (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				description TEXT NOT NULL CHECK (description <> ''),
				type INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_category_type ON category(type)`,
		},
	},
	{Name: tableExpense, Statements: entryTableDDL(tableExpense)},
	{Name: tableEarning, Statements: entryTableDDL(tableEarning)},
}

// EnsureSchema creates the car, category, expense and earning tables if they
// are missing. It is safe to call on every start.
//
// Each table is created on its own: a failure is logged, collected as a
// *SchemaError and the remaining tables are still attempted. The returned
// error joins every failure and is meant to be logged, not to abort start-up.
func (s *SQLiteStorage) EnsureSchema(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var errs []error
	for _, table := range tables {
		if err := s.createTable(ctx, table); err != nil {
			slog.Error("failed to create table", "table", table.Name, "error", err)
			errs = append(errs, &SchemaError{Table: table.Name, Err: err})
			continue
		}
		slog.Debug("table ready", "table", table.Name)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		slog.Warn("failed to record schema version", "error", err)
	}
	return nil
}

func (s *SQLiteStorage) createTable(ctx context.Context, table tableDefinition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, stmt := range table.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CurrentSchemaVersion returns the version stored in PRAGMA user_version.
// Zero means EnsureSchema has not completed successfully yet.
func (s *SQLiteStorage) CurrentSchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, queryError("read schema version", err)
	}
	return version, nil
}
