package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/carxp/internal/config"
	"github.com/Veraticus/carxp/internal/storage"
)

// useTestConfig points every command at a fresh database in a temp dir.
func useTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		DatabasePath: filepath.Join(dir, "carxp.db"),
		LogLevel:     "error",
		LogFormat:    "console",
		FuelCategory: "Combustível",
		BackupDir:    filepath.Join(dir, "backups"),
		Seed:         storage.DefaultSeed(),
	}
	previous := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = previous })
	return cfg
}

// run executes cmd with args and returns its output.
func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"init", "cars", "categories", "expenses", "earnings", "transactions",
		"history", "report", "import", "backup", "version",
	} {
		assert.True(t, names[want], "missing command %q", want)
	}

	for _, flag := range []string{"config", "db", "log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing flag --%s", flag)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, versionCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "carxp dev")
}

func TestInitCmd(t *testing.T) {
	cfg := useTestConfig(t)

	out, err := run(t, initCmd())
	require.NoError(t, err)
	assert.Contains(t, out, cfg.DatabasePath)
	assert.Contains(t, out, "Cars:           1")
	assert.Contains(t, out, "Database ready")

	// Seeding again must not duplicate the defaults.
	out, err = run(t, initCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Categories:     1")
}
