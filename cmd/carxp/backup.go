package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/storage"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage database backups",
		Long: `Create, list, restore, and delete copies of the database file.

Take a backup before a large import so you can go back if something looks wrong.`,
		Example: `  # Back up before importing a year of receipts
  carxp backup create pre-2024-import -d "before fuel import"

  # List all backups
  carxp backup list

  # Restore from a backup
  carxp backup restore pre-2024-import`,
	}

	cmd.AddCommand(createBackupCmd())
	cmd.AddCommand(listBackupsCmd())
	cmd.AddCommand(restoreBackupCmd())
	cmd.AddCommand(deleteBackupCmd())

	return cmd
}

func createBackupCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [tag]",
		Short: "Create a new backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			tag := ""
			if len(args) == 1 {
				tag = args[0]
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := newBackupManager(store)
			if err != nil {
				return err
			}

			info, err := manager.Create(ctx, tag, description)
			if err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}

			fmt.Fprintf(out, "%s Created backup %s (%s)\n",
				cli.SuccessStyle.Render(cli.FolderIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))
			if info.Description != "" {
				fmt.Fprintf(out, "  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "what this backup is for")

	return cmd
}

func listBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all backups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := newBackupManager(store)
			if err != nil {
				return err
			}

			backups, err := manager.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}

			if len(backups) == 0 {
				fmt.Fprintln(out, cli.SubtitleStyle.Render("No backups found."))
				return nil
			}

			now := time.Now()
			w := newTable(out, "NAME", "CREATED", "SIZE", "CARS", "CATEGORIES", "EXPENSES", "EARNINGS")
			for _, b := range backups {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					cli.InfoStyle.Render(b.ID),
					formatRelativeTime(b.CreatedAt, now),
					formatFileSize(b.FileSize),
					b.Cars,
					b.Categories,
					b.Expenses,
					b.Earnings,
				)
			}
			return w.Flush()
		},
	}
}

func restoreBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <backup-id>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			id := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := newBackupManager(store)
			if err != nil {
				return err
			}

			info, err := manager.Info(ctx, id)
			if err != nil {
				return backupLookupError(id, err)
			}

			if !force {
				fmt.Fprintf(out, "%s This will replace your current database with backup %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(id))
				fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					fmt.Fprintf(out, "  Description: %s\n", info.Description)
				}

				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("Restore cancelled."))
					return nil
				}
			}

			if err := manager.Restore(ctx, id); err != nil {
				return backupLookupError(id, err)
			}

			fmt.Fprintf(out, "%s Restored from backup %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func deleteBackupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <backup-id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			id := args[0]

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			manager, err := newBackupManager(store)
			if err != nil {
				return err
			}

			info, err := manager.Info(ctx, id)
			if err != nil {
				return backupLookupError(id, err)
			}

			if !force {
				fmt.Fprintf(out, "%s This will permanently delete backup %s (%s).\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(id),
					formatFileSize(info.FileSize))

				ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.SubtitleStyle.Render("Deletion cancelled."))
					return nil
				}
			}

			if err := manager.Delete(ctx, id); err != nil {
				return backupLookupError(id, err)
			}

			fmt.Fprintf(out, "%s Deleted backup %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(id))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func backupLookupError(id string, err error) error {
	if errors.Is(err, storage.ErrBackupNotFound) {
		return fmt.Errorf("no backup named %q; run 'carxp backup list'", id)
	}
	return err
}
