package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Veraticus/carxp/internal/common"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStorage is the embedded store behind every carxp operation.
// Open it once at start, pass it to whatever needs it, close it on shutdown.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage opens (creating if needed) the database file at dbPath.
// The schema is not touched; call EnsureSchema and SeedDefaults afterwards.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != MemoryPath {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// References are declared in the schema but not enforced, so an entry may
	// point at a car or category id that does not exist.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=off")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serialises writers itself; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Path returns the file the store was opened from.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// NewBackupManager creates a backup manager writing into dir.
func (s *SQLiteStorage) NewBackupManager(dir string) (*BackupManager, error) {
	return NewBackupManager(s.db, s.dbPath, dir)
}

// readTx runs fn inside a read-only transaction so that several SELECTs see
// the same state.
func (s *SQLiteStorage) readTx(ctx context.Context, fn func(q queryable) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return queryError("begin read transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return queryError("commit read transaction", err)
	}
	return nil
}

// queryError wraps a driver error as a QueryError, marking constraint violations.
func queryError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("%w: %w: %s: %w", common.ErrQuery, common.ErrConstraint, op, err)
	}
	return fmt.Errorf("%w: %s: %w", common.ErrQuery, op, err)
}

func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		// Extended codes (SQLITE_CONSTRAINT_CHECK, ...) share the primary code in the low byte.
		return sqliteErr.Code&0xff == sqlite3.ErrConstraint ||
			sqlite3.ErrNo(sqliteErr.ExtendedCode&0xff) == sqlite3.ErrConstraint
	}
	return false
}

// queryable is an interface satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
