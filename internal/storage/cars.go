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

// InsertCar stores a car and returns its id. An empty plate or a zero year is
// stored as NULL.
func (s *SQLiteStorage) InsertCar(ctx context.Context, carModel, plate string, year int) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	id, err := insertCar(ctx, s.db, carModel, plate, year)
	if err != nil {
		return 0, err
	}

	slog.Info("created car", "id", id, "model", carModel)
	return id, nil
}

func insertCar(ctx context.Context, q queryable, carModel, plate string, year int) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO car (model, plate, year) VALUES (?, ?, ?)`,
		carModel, nullString(plate), nullInt(year))
	if err != nil {
		return 0, queryError("insert car", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, queryError("read car id", err)
	}
	return id, nil
}

// GetCars returns every car in id order.
func (s *SQLiteStorage) GetCars(ctx context.Context) ([]model.Car, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCars(ctx, s.db)
}

func getCars(ctx context.Context, q queryable) ([]model.Car, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, model, plate, year FROM car ORDER BY id`)
	if err != nil {
		return nil, queryError("query cars", err)
	}
	defer func() { _ = rows.Close() }()

	var cars []model.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}

	if err := rows.Err(); err != nil {
		return nil, queryError("iterate cars", err)
	}

	slog.Debug("retrieved cars", "count", len(cars))
	return cars, nil
}

// GetCarByID returns the car with the given id, or common.ErrNotFound.
func (s *SQLiteStorage) GetCarByID(ctx context.Context, id int64) (*model.Car, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, model, plate, year FROM car WHERE id = ?`, id)
	car, err := scanCar(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("car %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &car, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCar(row scanner) (model.Car, error) {
	var car model.Car
	var plate sql.NullString
	var year sql.NullInt64

	if err := row.Scan(&car.ID, &car.Model, &plate, &year); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return car, err
		}
		return car, queryError("scan car", err)
	}

	car.Plate = plate.String
	car.Year = int(year.Int64)
	return car, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(i), Valid: i != 0}
}
