package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/carxp/internal/common"
	"github.com/Veraticus/carxp/internal/model"
)

// InsertCategory stores a category and returns its id.
func (s *SQLiteStorage) InsertCategory(ctx context.Context, description string, categoryType model.CategoryType) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	id, err := insertCategory(ctx, s.db, description, categoryType)
	if err != nil {
		return 0, err
	}

	slog.Info("created category", "id", id, "description", description, "type", categoryType.String())
	return id, nil
}

func insertCategory(ctx context.Context, q queryable, description string, categoryType model.CategoryType) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO category (description, type) VALUES (?, ?)`,
		description, int(categoryType))
	if err != nil {
		return 0, queryError("insert category", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, queryError("read category id", err)
	}
	return id, nil
}

// GetCategories returns every category in id order.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db, `SELECT id, description, type FROM category ORDER BY id`)
}

// GetCategoriesByType returns the categories of one type in id order.
func (s *SQLiteStorage) GetCategoriesByType(ctx context.Context, categoryType model.CategoryType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategories(ctx, s.db,
		`SELECT id, description, type FROM category WHERE type = ? ORDER BY id`, int(categoryType))
}

func getCategories(ctx context.Context, q queryable, query string, args ...any) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, queryError("query categories", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError("iterate categories", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns the category with the given id, or common.ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, description, type FROM category WHERE id = ?`, id)
	cat, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func scanCategory(row scanner) (model.Category, error) {
	var cat model.Category
	var categoryType int

	if err := row.Scan(&cat.ID, &cat.Description, &categoryType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cat, err
		}
		return cat, queryError("scan category", err)
	}

	cat.Type = model.CategoryType(categoryType)
	return cat, nil
}
