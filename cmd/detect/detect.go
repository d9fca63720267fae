// Package detect handles the dry-run statement recognition command
package detect

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/internal/categorizer"
	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/parser"
	"fintrack/bank-import/internal/source"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	bankName string
	maxRows  int
)

// Cmd represents the detect command
var Cmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Show how a statement would be parsed, without storing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("error reading %s: %w", args[0], err)
		}
		rules, err := categorizer.LoadRules(root.AppConfig.Categories.File)
		if err != nil {
			return err
		}
		opts := Options{BankName: bankName, MaxRows: maxRows}
		return Run(cmd.Context(), filepath.Base(args[0]), data, rules, opts, cmd.OutOrStdout(), root.Log)
	},
}

func init() {
	Cmd.Flags().StringVar(&bankName, "bank", "", "Parse as this bank instead of detecting it")
	Cmd.Flags().IntVarP(&maxRows, "rows", "n", 10, "Number of transactions to show (0 for all)")
}

// Options tunes Run.
type Options struct {
	BankName string
	MaxRows  int
}

// Run decodes, parses and categorizes data and prints a summary with a preview.
func Run(ctx context.Context, filename string, data []byte, rules categorizer.Rules, opts Options, out io.Writer, logger logging.Logger) error {
	content, err := source.NewDecoder(nil, nil, logger).Decode(filename, data)
	if err != nil {
		return err
	}
	dispatcher := parser.NewDispatcher(logger)

	var result models.ParseResult
	if opts.BankName != "" {
		result, err = dispatcher.DispatchAs(opts.BankName, filename, &content)
	} else {
		result, err = dispatcher.Dispatch(filename, &content)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Bank:         %s\n", result.BankName)
	fmt.Fprintf(out, "Currency:     %s\n", result.Currency)
	fmt.Fprintf(out, "Transactions: %d (%d skipped)\n", len(result.Transactions), result.SkippedRows)
	if len(result.Transactions) > 0 {
		fmt.Fprintf(out, "Period:       %s → %s\n", result.EarliestDate(), result.LatestDate())
	}
	if result.DetectedBalance != nil {
		date := ""
		if result.DetectedBalanceDate != nil {
			date = " on " + *result.DetectedBalanceDate
		}
		fmt.Fprintf(out, "Balance:      %s%s\n", currencyutils.FormatAmount(*result.DetectedBalance), date)
	}

	txs := result.Transactions
	if opts.MaxRows > 0 && len(txs) > opts.MaxRows {
		txs = txs[:opts.MaxRows]
	}
	if len(txs) == 0 {
		return nil
	}
	categorized := categorizer.NewFromRules(rules, nil, logger).CategorizeAll(ctx, txs, result.Currency)
	rows := make([][]string, 0, len(categorized))
	for _, tx := range categorized {
		rows = append(rows, []string{
			tx.Date, tx.Description, currencyutils.FormatAmount(tx.SignedAmount()), tx.Category,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Description", "Montant", "Catégorie").
		Rows(rows...)
	_, err = fmt.Fprintln(out, t.String())
	return err
}
