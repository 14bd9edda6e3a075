package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/config"
	"github.com/Veraticus/carxp/internal/ledger"
	"github.com/Veraticus/carxp/internal/service"
	"github.com/Veraticus/carxp/internal/storage"
)

// currentConfig returns the configuration loaded by the root command, loading
// it from viper when a subcommand runs on its own (as in tests).
func currentConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	appConfig = cfg
	return cfg, nil
}

// initStorage opens the database and prepares it. Schema and seed failures are
// logged and reported but do not stop the command; whatever tables exist stay usable.
func initStorage(ctx context.Context) (service.Storage, error) {
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	return openStorage(ctx, cfg)
}

func openStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		slog.Error("schema setup incomplete", "error", err)
	}
	if err := store.SeedDefaults(ctx, cfg.Seed); err != nil {
		slog.Error("seeding defaults incomplete", "error", err)
	}

	return store, nil
}

// newBackupManager builds a backup manager for the SQLite store.
func newBackupManager(store service.Storage) (*storage.BackupManager, error) {
	sqliteStore, ok := store.(*storage.SQLiteStorage)
	if !ok {
		return nil, fmt.Errorf("storage is not SQLite")
	}
	cfg, err := currentConfig()
	if err != nil {
		return nil, err
	}
	manager, err := sqliteStore.NewBackupManager(cfg.BackupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup manager: %w", err)
	}
	return manager, nil
}

// filterFlags are the history/report filter options.
type filterFlags struct {
	period   string
	car      int64
	category int64
	month    int
	year     int
	day      int
}

func (f *filterFlags) bind(cmd *cobra.Command, defaultPeriod ledger.Period) {
	names := make([]string, 0, len(ledger.Periods()))
	for _, p := range ledger.Periods() {
		names = append(names, string(p))
	}

	cmd.Flags().StringVarP(&f.period, "period", "p", string(defaultPeriod), "time window ("+strings.Join(names, ", ")+")")
	cmd.Flags().Int64Var(&f.car, "car", 0, "only rows for this car id")
	cmd.Flags().Int64Var(&f.category, "category", 0, "only rows in this category id")
	cmd.Flags().IntVar(&f.month, "month", 0, "only rows in this calendar month (1-12)")
	cmd.Flags().IntVar(&f.year, "year", 0, "only rows in this year")
	cmd.Flags().IntVar(&f.day, "day", 0, "only rows on this day of the month (1-31)")
}

// filter converts the flags into a validated ledger.Filter.
func (f *filterFlags) filter() (ledger.Filter, error) {
	period, err := ledger.ParsePeriod(f.period)
	if err != nil {
		return ledger.Filter{}, err
	}

	filter := ledger.Filter{
		Period:     period,
		CarID:      f.car,
		CategoryID: f.category,
		Month:      f.month,
		Year:       f.year,
		Day:        f.day,
	}
	if err := filter.Validate(); err != nil {
		return ledger.Filter{}, err
	}
	return filter, nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// newTable returns a tabwriter with a styled header row already written.
func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(h)
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	return tw
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time, now time.Time) string {
	duration := now.Sub(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "yesterday"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// labelOr returns s, or a dimmed placeholder when s is empty.
func labelOr(s, placeholder string) string {
	if s == "" {
		return cli.SubtleStyle.Render(placeholder)
	}
	return s
}
