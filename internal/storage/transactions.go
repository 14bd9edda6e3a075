package storage

import (
	"context"
	"log/slog"

	"github.com/Veraticus/carxp/internal/ledger"
	"github.com/Veraticus/carxp/internal/model"
)

// Snapshot reads all four tables inside one read transaction.
func (s *SQLiteStorage) Snapshot(ctx context.Context) (model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return model.Snapshot{}, err
	}

	var snap model.Snapshot
	err := s.readTx(ctx, func(q queryable) error {
		var err error
		if snap.Expenses, err = getEntries(ctx, q, model.KindExpense); err != nil {
			return err
		}
		if snap.Earnings, err = getEntries(ctx, q, model.KindEarning); err != nil {
			return err
		}
		if snap.Cars, err = getCars(ctx, q); err != nil {
			return err
		}
		snap.Categories, err = getCategories(ctx, q, `SELECT id, description, type FROM category ORDER BY id`)
		return err
	})
	if err != nil {
		return model.Snapshot{}, err
	}
	return snap, nil
}

// GetAllTransactions returns every expense and earning labelled with its
// category description and car model. Labels are nil for references to rows
// that do not exist. Order is expenses then earnings, each by id.
func (s *SQLiteStorage) GetAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	txns := ledger.Merge(snap)
	slog.Debug("merged transactions",
		"expenses", len(snap.Expenses),
		"earnings", len(snap.Earnings),
		"total", len(txns))
	return txns, nil
}
