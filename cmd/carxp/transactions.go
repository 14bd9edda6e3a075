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

func transactionsCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List expenses and earnings together",
		Long: `Show every expense followed by every earning, with the category and car
each one points at. Rows whose category or car no longer exists show a dash.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

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
				return fmt.Errorf("failed to load transactions: %w", err)
			}

			txns = ledger.Apply(txns, filter, time.Now())
			if len(txns) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No transactions match."))
				return nil
			}

			return writeTransactions(out, txns)
		},
	}

	flags.bind(cmd, ledger.PeriodAll)

	return cmd
}

func writeTransactions(out io.Writer, txns []model.Transaction) error {
	w := newTable(out, "KIND", "ID", "DATE", "DESCRIPTION", "AMOUNT", "CATEGORY", "CAR")
	for _, t := range txns {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			t.Kind,
			t.ID,
			report.FormatDate(t.Date),
			t.Description,
			cli.FormatMoney(t.Amount, t.IsExpense()),
			labelOr(t.CategoryName(), "-"),
			labelOr(t.CarName(), "-"),
		)
	}
	return w.Flush()
}
