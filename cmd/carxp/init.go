package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/common"
	"github.com/Veraticus/carxp/internal/storage"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed defaults",
		Long: `Create any missing tables and insert the default car and category into
empty tables. Safe to run any number of times; every other command does the same
on start.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := currentConfig()
			if err != nil {
				return err
			}

			store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer store.Close()

			schemaErr := store.EnsureSchema(ctx)
			if schemaErr != nil {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Some tables could not be created: %v", schemaErr)))
			}

			seedErr := store.SeedDefaults(ctx, cfg.Seed)
			if seedErr != nil {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Defaults could not be seeded: %v", seedErr)))
			}

			schemaVersion, err := store.CurrentSchemaVersion(ctx)
			if err != nil {
				return err
			}

			cars, err := store.GetCars(ctx)
			if err != nil {
				return err
			}
			categories, err := store.GetCategories(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatTitle("carxp database"))
			fmt.Fprintf(out, "  Path:           %s\n", store.Path())
			fmt.Fprintf(out, "  Schema version: %d\n", schemaVersion)
			fmt.Fprintf(out, "  Cars:           %d\n", len(cars))
			fmt.Fprintf(out, "  Categories:     %d\n", len(categories))

			if schemaErr == nil && seedErr == nil {
				common.LogInfo("database ready", common.Fields{"path": store.Path(), "schema_version": schemaVersion})
				fmt.Fprintln(out, cli.FormatSuccess("Database ready"))
			}
			return nil
		},
	}
}
