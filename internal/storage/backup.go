package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupManager writes point-in-time copies of the database file next to it
// and can put one back in place.
type BackupManager struct {
	db     *sql.DB
	dbPath string
	dir    string
}

// BackupMetadata is stored as <id>.meta.json beside each backup file.
type BackupMetadata struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
}

// BackupInfo summarises a backup for listing.
type BackupInfo struct {
	CreatedAt     time.Time
	ID            string
	Description   string
	FileSize      int64
	Cars          int
	Categories    int
	Expenses      int
	Earnings      int
	SchemaVersion int
}

// Backup errors.
var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrBackupExists    = errors.New("backup already exists")
	ErrInvalidBackupID = errors.New("invalid backup id: cannot contain path separators")
	ErrMemoryDatabase  = errors.New("in-memory databases cannot be backed up")
)

// NewBackupManager creates a manager that stores backups in dir. An empty dir
// means a "backups" directory next to the database file.
func NewBackupManager(db *sql.DB, dbPath, dir string) (*BackupManager, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db", ErrNilParameter)
	}
	if dbPath == MemoryPath {
		return nil, ErrMemoryDatabase
	}

	absDB, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	if dir == "" {
		dir = filepath.Join(filepath.Dir(absDB), "backups")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve backup directory: %w", err)
	}

	if err := os.MkdirAll(absDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	return &BackupManager{
		db:     db,
		dbPath: absDB,
		dir:    absDir,
	}, nil
}

// Dir returns the directory backups are written to.
func (bm *BackupManager) Dir() string {
	return bm.dir
}

// Create copies the live database into <dir>/<tag>.db. An empty tag is
// replaced with a timestamped one.
func (bm *BackupManager) Create(ctx context.Context, tag, description string) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if tag == "" {
		tag = fmt.Sprintf("backup-%s", time.Now().Format("2006-01-02-150405"))
	}
	if err := validateBackupID(tag); err != nil {
		return nil, err
	}

	backupPath := bm.backupPath(tag)
	if _, err := os.Stat(backupPath); err == nil {
		return nil, ErrBackupExists
	}

	var schemaVersion int
	if err := bm.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&schemaVersion); err != nil {
		return nil, queryError("read schema version", err)
	}

	rowCounts := bm.collectRowCounts(ctx)

	if err := bm.backupDatabase(ctx, backupPath); err != nil {
		return nil, fmt.Errorf("failed to backup database: %w", err)
	}

	stat, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	metadata := BackupMetadata{
		ID:            tag,
		CreatedAt:     time.Now(),
		Description:   description,
		FileSize:      stat.Size(),
		RowCounts:     rowCounts,
		SchemaVersion: schemaVersion,
	}

	if err := bm.saveMetadata(bm.metadataPath(tag), metadata); err != nil {
		if rmErr := os.Remove(backupPath); rmErr != nil {
			slog.Error("failed to remove backup file after metadata save failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	slog.Info("created backup", "id", tag, "path", backupPath, "size", stat.Size())
	info := metadata.info()
	return &info, nil
}

// List returns every backup, newest first. Backups with unreadable metadata
// are skipped.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}

		metadata, err := bm.loadMetadata(filepath.Join(bm.dir, entry.Name()))
		if err != nil {
			slog.Warn("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, metadata.info())
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Info returns the metadata of one backup.
func (bm *BackupManager) Info(_ context.Context, id string) (*BackupInfo, error) {
	if err := validateBackupID(id); err != nil {
		return nil, err
	}

	metadata, err := bm.loadMetadata(bm.metadataPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrBackupNotFound
		}
		return nil, fmt.Errorf("failed to load backup metadata: %w", err)
	}

	info := metadata.info()
	return &info, nil
}

// Restore replaces the database file with the backup. The database handle is
// closed first, so the owning SQLiteStorage must not be used afterwards.
func (bm *BackupManager) Restore(_ context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	backupPath := bm.backupPath(id)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if err := verifyIntegrity(backupPath); err != nil {
		slog.Error("backup failed integrity check", "id", id, "error", err)
		return ErrBackupCorrupted
	}

	if err := bm.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	safetyCopy := bm.dbPath + ".restore-backup"
	if err := copyFile(bm.dbPath, safetyCopy); err != nil {
		return fmt.Errorf("failed to backup current database: %w", err)
	}

	// Stale WAL pages would be replayed over the restored file.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(bm.dbPath + suffix); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove journal file", "path", bm.dbPath+suffix, "error", err)
		}
	}

	if err := copyFile(backupPath, bm.dbPath); err != nil {
		if restoreErr := copyFile(safetyCopy, bm.dbPath); restoreErr != nil {
			slog.Error("failed to put database back after restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	if err := os.Remove(safetyCopy); err != nil {
		slog.Error("failed to remove safety copy", "error", err)
	}

	slog.Info("restored backup", "id", id, "database", bm.dbPath)
	return nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(_ context.Context, id string) error {
	if err := validateBackupID(id); err != nil {
		return err
	}

	backupPath := bm.backupPath(id)
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupNotFound
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to remove backup file: %w", err)
	}

	if err := os.Remove(bm.metadataPath(id)); err != nil {
		slog.Debug("failed to remove metadata file", "error", err, "id", id)
	}

	slog.Info("deleted backup", "id", id)
	return nil
}

func (bm *BackupManager) backupPath(id string) string {
	return filepath.Join(bm.dir, id+".db")
}

func (bm *BackupManager) metadataPath(id string) string {
	return filepath.Join(bm.dir, id+".meta.json")
}

func (bm *BackupManager) collectRowCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)

	// Explicit queries per table to keep table names out of string formatting.
	tableQueries := map[string]string{
		tableCar:      "SELECT COUNT(*) FROM car",
		tableCategory: "SELECT COUNT(*) FROM category",
		tableExpense:  "SELECT COUNT(*) FROM expense",
		tableEarning:  "SELECT COUNT(*) FROM earning",
	}

	for table, query := range tableQueries {
		var count int
		if err := bm.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			// Table may be missing if EnsureSchema partly failed.
			slog.Debug("could not count rows", "table", table, "error", err)
			counts[table] = 0
			continue
		}
		counts[table] = count
	}

	return counts
}

func (bm *BackupManager) backupDatabase(ctx context.Context, destPath string) error {
	if _, err := bm.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	if strings.ContainsAny(destPath, `'";`) {
		return fmt.Errorf("invalid destination path: contains forbidden characters")
	}
	if !filepath.IsAbs(destPath) || strings.Contains(destPath, "..") {
		return fmt.Errorf("invalid destination path")
	}

	// #nosec G201 - destPath is validated above
	if _, err := bm.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", destPath)); err != nil {
		slog.Warn("VACUUM INTO failed, falling back to file copy", "error", err)
		return copyFile(bm.dbPath, destPath)
	}
	return nil
}

func (bm *BackupManager) saveMetadata(path string, metadata BackupMetadata) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func (bm *BackupManager) loadMetadata(path string) (*BackupMetadata, error) {
	if !filepath.IsAbs(path) || strings.Contains(path, "..") {
		return nil, fmt.Errorf("invalid metadata path")
	}

	// #nosec G304 - path is validated above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var metadata BackupMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

func (m BackupMetadata) info() BackupInfo {
	return BackupInfo{
		ID:            m.ID,
		CreatedAt:     m.CreatedAt,
		Description:   m.Description,
		FileSize:      m.FileSize,
		Cars:          m.RowCounts[tableCar],
		Categories:    m.RowCounts[tableCategory],
		Expenses:      m.RowCounts[tableExpense],
		Earnings:      m.RowCounts[tableEarning],
		SchemaVersion: m.SchemaVersion,
	}
}

func validateBackupID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return ErrInvalidBackupID
	}
	return nil
}

func verifyIntegrity(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

func copyFile(src, dst string) error {
	if filepath.Clean(src) != src || filepath.Clean(dst) != dst {
		return fmt.Errorf("invalid file paths")
	}

	tmpDst := dst + ".tmp"

	// #nosec G304 - src is a cleaned path owned by the manager
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := source.Close(); closeErr != nil {
			slog.Error("failed to close source file", "error", closeErr)
		}
	}()

	// #nosec G304 - tmpDst is derived from a cleaned path
	destination, err := os.Create(tmpDst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		_ = os.Remove(tmpDst)
		return err
	}

	if err := destination.Close(); err != nil {
		_ = os.Remove(tmpDst)
		return err
	}

	return os.Rename(tmpDst, dst)
}
