package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/ledger"
	"github.com/Veraticus/carxp/internal/model"
	"github.com/Veraticus/carxp/internal/report"
)

func reportCmd() *cobra.Command {
	var (
		flags     filterFlags
		fuelLabel string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise expenses and earnings",
		Long: `Show totals for a period: expenses split into fuel and everything else,
earnings, the net result, spending per category and per month.`,
		Example: `  carxp report
  carxp report --period lastYear --car 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			filter, err := flags.filter()
			if err != nil {
				return err
			}

			if fuelLabel == "" {
				cfg, err := currentConfig()
				if err != nil {
					return err
				}
				fuelLabel = cfg.FuelCategory
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

			rows := ledger.Apply(txns, filter, time.Now())
			writeReport(out, rows, filter.Period, fuelLabel)
			return nil
		},
	}

	flags.bind(cmd, ledger.PeriodLastMonth)
	cmd.Flags().StringVar(&fuelLabel, "fuel-category", "", "category counted as fuel (default from config)")

	return cmd
}

func writeReport(out io.Writer, rows []model.Transaction, period ledger.Period, fuelLabel string) {
	var expenses []model.Transaction
	for _, r := range rows {
		if r.IsExpense() {
			expenses = append(expenses, r)
		}
	}

	summary := report.Summarize(rows)
	fuel, other := report.FuelSplit(expenses, fuelLabel)

	var totals strings.Builder
	fmt.Fprintf(&totals, "Total Fuel:     %s\n", cli.FormatMoney(fuel, true))
	fmt.Fprintf(&totals, "Total Other:    %s\n", cli.FormatMoney(other, true))
	fmt.Fprintf(&totals, "Total Expenses: %s\n", cli.FormatMoney(summary.Expenses, true))
	fmt.Fprintf(&totals, "Total Earnings: %s\n", cli.FormatMoney(summary.Earnings, false))
	fmt.Fprintf(&totals, "Net:            %s", cli.FormatMoney(summary.Net.Abs(), summary.Net.IsNegative()))

	fmt.Fprintln(out, cli.RenderBox(fmt.Sprintf("%s Report (%s, %d entries)", cli.ChartIcon, period, summary.Count), totals.String()))

	if len(expenses) == 0 {
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.SectionStyle.Render("Expenses by category"))
	w := newTable(out, "CATEGORY", "AMOUNT", "SHARE")
	for _, c := range report.Breakdown(report.GroupByCategory(expenses)) {
		fmt.Fprintf(w, "%s\t%s\t%s%%\n", c.Category, report.FormatAmount(c.Amount), c.Share.StringFixed(2))
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.SectionStyle.Render("Expenses by month"))
	byMonth := report.GroupByMonth(expenses)
	months := make([]string, 0, len(byMonth))
	for k := range byMonth {
		months = append(months, k)
	}
	sort.Slice(months, func(i, j int) bool { return monthSortKey(months[i]) > monthSortKey(months[j]) })

	w = newTable(out, "MONTH", "AMOUNT")
	for _, m := range months {
		fmt.Fprintf(w, "%s\t%s\n", m, report.FormatAmount(byMonth[m]))
	}
	_ = w.Flush()
}

// monthSortKey turns "MM/YYYY" into "YYYYMM" so keys sort chronologically.
// The unlabeled bucket sorts last when ordering newest first.
func monthSortKey(key string) string {
	month, year, ok := strings.Cut(key, "/")
	if !ok {
		return ""
	}
	return year + month
}
