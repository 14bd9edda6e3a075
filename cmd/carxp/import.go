package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Veraticus/carxp/internal/cli"
	"github.com/Veraticus/carxp/internal/common"
	"github.com/Veraticus/carxp/internal/model"
)

// importColumns is the required CSV header. Column order is free.
var importColumns = []string{"description", "date", "amount", "category_id", "car_id"}

// importRow is one parsed CSV record. Err is set when the row cannot be imported.
type importRow struct {
	Err   error
	Entry model.Entry
	Line  int
}

func importCmd() *cobra.Command {
	var (
		kindName string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk-insert expenses or earnings from a CSV file",
		Long: `Import rows from a CSV file with the header
  description,date,amount,category_id,car_id

Each row is validated before insert; invalid rows are reported and skipped.
Press Ctrl+C to stop; rows already imported are kept.`,
		Args: cobra.ExactArgs(1),
		Example: `  carxp import fuel-2024.csv --kind expense
  carxp import rides.csv --kind earning --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			kind, err := model.ParseKind(kindName)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return common.NewUserError("cannot open import file", err)
			}
			defer f.Close()

			rows, err := parseImportCSV(f)
			if err != nil {
				return err
			}

			valid := 0
			for _, r := range rows {
				if r.Err != nil {
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("line %d skipped: %v", r.Line, r.Err)))
					continue
				}
				valid++
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d of %d rows would be imported as %ss", valid, len(rows), kind)))
				return nil
			}
			if valid == 0 {
				fmt.Fprintln(out, cli.FormatWarning("Nothing to import"))
				return nil
			}

			interrupts := cli.NewInterruptHandler(out)
			ctx := interrupts.HandleInterrupts(cmd.Context(), "Import")
			defer interrupts.Stop()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			progress := cli.NewProgress(out, valid, fmt.Sprintf("Importing %ss", kind))
			failed := 0
			for _, r := range rows {
				if r.Err != nil {
					continue
				}
				if ctx.Err() != nil {
					break
				}
				if _, err := store.InsertEntry(ctx, kind, r.Entry); err != nil {
					if interrupts.WasInterrupted() {
						break
					}
					failed++
					common.LogError(err, "failed to import row", common.Fields{"line": r.Line, "kind": kind})
					continue
				}
				progress.Step()
			}
			if !interrupts.WasInterrupted() {
				progress.Finish()
			}

			imported := progress.Done()
			skipped := len(rows) - valid
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d %ss (%d skipped, %d failed)", imported, kind, skipped, failed)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", string(model.KindExpense), "entry kind (expense, earning)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing anything")

	return cmd
}

// parseImportCSV reads every record of r. A bad header is an error; bad rows
// come back with Err set.
func parseImportCSV(r io.Reader) ([]importRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, common.NewUserError("import file is empty", nil)
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	var missing []string
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, common.NewUserError(fmt.Sprintf("CSV header is missing columns: %s", strings.Join(missing, ", ")), nil)
	}

	var rows []importRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rows = append(rows, importRow{Line: line, Err: err})
			continue
		}

		entry, err := recordToEntry(record, index)
		if err == nil {
			err = entry.Validate()
		}
		rows = append(rows, importRow{Line: line, Entry: entry, Err: err})
	}
	return rows, nil
}

func recordToEntry(record []string, index map[string]int) (model.Entry, error) {
	field := func(name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var entry model.Entry
	entry.Description = field("description")
	entry.Date = field("date")

	amount, err := decimal.NewFromString(field("amount"))
	if err != nil {
		return entry, &model.ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", field("amount"))}
	}
	entry.Amount = amount

	if entry.CategoryID, err = parseID(field("category_id")); err != nil {
		return entry, &model.ValidationError{Field: "category", Reason: err.Error()}
	}
	if entry.CarID, err = parseID(field("car_id")); err != nil {
		return entry, &model.ValidationError{Field: "car", Reason: err.Error()}
	}
	return entry, nil
}

func parseID(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an id", s)
	}
	return id, nil
}
