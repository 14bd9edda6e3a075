package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/ledger"
	"github.com/Veraticus/carxp/internal/model"
	"github.com/Veraticus/carxp/internal/report"
)

func historyCmd() *cobra.Command {
	var (
		flags    filterFlags
		kindName string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show entries month by month",
		Long: `Show expenses or earnings grouped into monthly sections, newest first,
with a total per month. Filters combine: every one given must match.`,
		Example: `  carxp history --period last3Months
  carxp history --kind earning --car 2 --year 2024`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			kind, err := model.ParseKind(kindName)
			if err != nil {
				return err
			}
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			txns, err := store.GetAllTransactions(ctx)
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}

			rows := make([]model.Transaction, 0, len(txns))
			for _, t := range txns {
				if t.Kind == kind {
					rows = append(rows, t)
				}
			}
			rows = ledger.Apply(rows, filter, time.Now())

			if len(rows) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("No %ss in this period.", kind)))
				return nil
			}

			return writeHistory(out, report.MonthSections(rows), kind)
		},
	}

	flags.bind(cmd, ledger.PeriodAll)
	cmd.Flags().StringVarP(&kindName, "kind", "k", string(model.KindExpense), "entry kind (expense, earning)")

	return cmd
}

func writeHistory(out io.Writer, sections []report.Section, kind model.Kind) error {
	expense := kind == model.KindExpense
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %s\n", cli.SectionStyle.Render(section.Key), cli.FormatMoney(section.Total, expense))

		w := newTable(out, "DATE", "DESCRIPTION", "AMOUNT", "CATEGORY", "CAR")
		for _, t := range section.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				report.FormatDate(t.Date),
				t.Description,
				cli.FormatMoney(t.Amount, expense),
				labelOr(t.CategoryName(), "-"),
				labelOr(t.CarName(), "-"),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
