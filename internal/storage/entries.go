package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/carxp/internal/model"
)

// InsertExpense stores an expense and returns its id.
func (s *SQLiteStorage) InsertExpense(ctx context.Context, description, date string, amount decimal.Decimal, categoryID, carID int64) (int64, error) {
	return s.insertEntry(ctx, model.KindExpense, description, date, amount, categoryID, carID)
}

// InsertEarning stores an earning and returns its id.
func (s *SQLiteStorage) InsertEarning(ctx context.Context, description, date string, amount decimal.Decimal, categoryID, carID int64) (int64, error) {
	return s.insertEntry(ctx, model.KindEarning, description, date, amount, categoryID, carID)
}

// InsertEntry stores e in the table matching kind. e.ID is ignored.
func (s *SQLiteStorage) InsertEntry(ctx context.Context, kind model.Kind, e model.Entry) (int64, error) {
	return s.insertEntry(ctx, kind, e.Description, e.Date, e.Amount, e.CategoryID, e.CarID)
}

// GetExpenses returns every expense in id order.
func (s *SQLiteStorage) GetExpenses(ctx context.Context) ([]model.Entry, error) {
	return s.getEntries(ctx, model.KindExpense)
}

// GetEarnings returns every earning in id order.
func (s *SQLiteStorage) GetEarnings(ctx context.Context) ([]model.Entry, error) {
	return s.getEntries(ctx, model.KindEarning)
}

// DeleteExpense removes the expense with the given id. A missing id is not an error.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int64) error {
	return s.DeleteEntry(ctx, model.KindExpense, id)
}

// DeleteEarning removes the earning with the given id. A missing id is not an error.
func (s *SQLiteStorage) DeleteEarning(ctx context.Context, id int64) error {
	return s.DeleteEntry(ctx, model.KindEarning, id)
}

// DeleteEntry removes the row with the given id from the table matching kind.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, kind model.Kind, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	// #nosec G201 - table comes from tableFor
	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return queryError("delete "+string(kind), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return queryError("read rows affected", err)
	}

	if affected == 0 {
		slog.Debug("delete matched no rows", "kind", kind, "id", id)
		return nil
	}

	slog.Info("deleted entry", "kind", kind, "id", id)
	return nil
}

func (s *SQLiteStorage) insertEntry(ctx context.Context, kind model.Kind, description, date string, amount decimal.Decimal, categoryID, carID int64) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	// Amounts bind as text; the cast makes the CHECK compare numbers.
	// #nosec G201 - table comes from tableFor
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (description, date, amount, category_id, car_id) VALUES (?, ?, CAST(? AS NUMERIC), ?, ?)`, table),
		description, date, amount, categoryID, carID)
	if err != nil {
		return 0, queryError("insert "+string(kind), err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, queryError("read "+string(kind)+" id", err)
	}

	slog.Info("created entry",
		"kind", kind,
		"id", id,
		"date", date,
		"amount", amount.String(),
		"category_id", categoryID,
		"car_id", carID)
	return id, nil
}

func (s *SQLiteStorage) getEntries(ctx context.Context, kind model.Kind) ([]model.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getEntries(ctx, s.db, kind)
}

func getEntries(ctx context.Context, q queryable, kind model.Kind) ([]model.Entry, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	// #nosec G201 - table comes from tableFor
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, description, date, amount, category_id, car_id
		FROM %s
		ORDER BY id`, table))
	if err != nil {
		return nil, queryError("query "+table, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.Entry
	for rows.Next() {
		var e model.Entry
		if err := rows.Scan(&e.ID, &e.Description, &e.Date, &e.Amount, &e.CategoryID, &e.CarID); err != nil {
			return nil, queryError("scan "+table, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError("iterate "+table, err)
	}

	slog.Debug("retrieved entries", "kind", kind, "count", len(entries))
	return entries, nil
}
