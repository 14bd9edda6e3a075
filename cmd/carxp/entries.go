package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/common"
	"github.com/Veraticus/carxp/internal/model"
	"github.com/Veraticus/carxp/internal/report"
	"github.com/Veraticus/carxp/internal/service"
)

// entriesCmd builds the "expenses" or "earnings" command tree.
func entriesCmd(kind model.Kind) *cobra.Command {
	plural := string(kind) + "s"

	cmd := &cobra.Command{
		Use:   plural,
		Short: fmt.Sprintf("Manage %s", plural),
		Long:  fmt.Sprintf(`List, add and delete %s. Rows cannot be edited; delete and add again.`, plural),
	}

	cmd.AddCommand(listEntriesCmd(kind))
	cmd.AddCommand(addEntryCmd(kind))
	cmd.AddCommand(deleteEntryCmd(kind))

	return cmd
}

func fetchEntries(ctx context.Context, store service.RecordStore, kind model.Kind) ([]model.Entry, error) {
	switch kind {
	case model.KindExpense:
		return store.GetExpenses(ctx)
	case model.KindEarning:
		return store.GetEarnings(ctx)
	default:
		return nil, fmt.Errorf("unknown entry kind %q", kind)
	}
}

func listEntriesCmd(kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %ss", kind),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := fetchEntries(ctx, store, kind)
			if err != nil {
				return fmt.Errorf("failed to get %ss: %w", kind, err)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("No %ss recorded yet.", kind)))
				return nil
			}

			w := newTable(out, "ID", "Date", "Description", "Amount", "Category", "Car")
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
					e.ID,
					report.FormatDate(e.Date),
					e.Description,
					cli.FormatMoney(e.Amount, kind == model.KindExpense),
					e.CategoryID,
					e.CarID,
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%s %s\n", cli.BoldStyle.Render("Total:"),
				cli.FormatMoney(report.SumAmounts(entries), kind == model.KindExpense))
			return nil
		},
	}
}

// entryFlags are the form fields of an entry.
type entryFlags struct {
	amount   string
	date     string
	category int64
	car      int64
}

func (f *entryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 120.50")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().Int64Var(&f.car, "car", 0, "car id")
}

// entry builds the entry the flags describe. Validation is left to the caller.
func (f *entryFlags) entry(description string, now time.Time) (model.Entry, error) {
	if strings.TrimSpace(f.amount) == "" {
		return model.Entry{}, &model.ValidationError{Field: "amount", Reason: "is required"}
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.amount), ",", "."))
	if err != nil {
		return model.Entry{}, &model.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", f.amount)}
	}

	date := f.date
	if strings.TrimSpace(date) == "" {
		date = now.Format(model.DateLayout)
	}

	return model.Entry{
		Description: description,
		Date:        date,
		Amount:      amount,
		CategoryID:  f.category,
		CarID:       f.car,
	}, nil
}

func addEntryCmd(kind model.Kind) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: fmt.Sprintf("Record an %s", kind),
		Args:  cobra.ExactArgs(1),
		Example: fmt.Sprintf(`  carxp %ss add "Troca de oleo" --amount 120.50 --date 2024-04-28 --category 1 --car 1`, kind),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			entry, err := flags.entry(args[0], time.Now())
			if err != nil {
				return err
			}
			if err := entry.Validate(); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			warnDanglingReferences(ctx, out, store, kind, entry)

			id, err := store.InsertEntry(ctx, kind, entry)
			if err != nil {
				return fmt.Errorf("failed to add %s: %w", kind, err)
			}

			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Recorded %s %q of %s (id %d)",
				kind, entry.Description, report.FormatAmount(entry.Amount), id)))
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

// warnDanglingReferences tells the user when the entry points at a car or
// category that does not exist. The row is still written.
func warnDanglingReferences(ctx context.Context, w io.Writer, store service.RecordStore, kind model.Kind, entry model.Entry) {
	category, err := store.GetCategoryByID(ctx, entry.CategoryID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Category %d does not exist; the %s will show as unlabeled", entry.CategoryID, kind)))
	case err != nil:
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Could not check category %d: %v", entry.CategoryID, err)))
	case category.Type != kind.CategoryType():
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Category %q is an %s category", category.Description, category.Type)))
	}

	_, err = store.GetCarByID(ctx, entry.CarID)
	switch {
	case errors.Is(err, common.ErrNotFound):
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Car %d does not exist", entry.CarID)))
	case err != nil:
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("Could not check car %d: %v", entry.CarID, err)))
	}
}

func deleteEntryCmd(kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete an %s", kind),
		Long:  fmt.Sprintf(`Delete an %s by id. Deleting an id that does not exist does nothing.`, kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return common.NewUserError(fmt.Sprintf("%q is not a valid id", args[0]), err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.DeleteEntry(ctx, kind, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s %d", kind, id)))
			return nil
		},
	}
}
