// Package importcmd handles statement import commands
package importcmd

import (
	"context"
	"fmt"
	"io"

	"fintrack/bank-import/cmd/common"
	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/importer"

	"github.com/spf13/cobra"
)

// Importer imports statements into an account.
type Importer interface {
	ImportFiles(ctx context.Context, accountID string, files []importer.File) []importer.Report
}

var (
	accountID string
	asJSON    bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import --account ID FILE...",
	Short: "Import bank statements into an account",
	Long: `Import one or more statements. The bank is recognised from each file's
content; transactions are categorized and stored, the account balance is
updated and anomaly and budget checks run in the background.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := common.ReadFiles(args, root.Log)
		if err != nil {
			return err
		}
		return common.WithContainer(cmd.Context(), func(c *container.Container) error {
			return Run(cmd.Context(), c.GetImporter(), accountID, files, asJSON, cmd.OutOrStdout())
		})
	},
}

func init() {
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Target account identifier")
	Cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	_ = Cmd.MarkFlagRequired("account")
}

// Run imports files and prints one report per file. It fails when any file failed.
func Run(ctx context.Context, imp Importer, accountID string, files []importer.File, asJSON bool, out io.Writer) error {
	reports := imp.ImportFiles(ctx, accountID, files)

	if asJSON {
		if err := common.PrintJSON(out, reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if _, err := fmt.Fprintln(out, describe(r)); err != nil {
				return err
			}
		}
	}

	failed := 0
	for _, r := range reports {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to import", failed, len(reports))
	}
	return nil
}

func describe(r importer.Report) string {
	if r.Error != "" {
		return fmt.Sprintf("%s: error: %s", r.Filename, r.Error)
	}
	if r.Imported == 0 {
		return fmt.Sprintf("%s: no transactions (%s)", r.Filename, r.BankName)
	}
	line := fmt.Sprintf("%s: %d imported, %d skipped (%s, %s, %s → %s)",
		r.Filename, r.Imported, r.Skipped, r.BankName, r.Currency, r.From, r.To)
	if r.Balance != nil {
		kind := "balance"
		if r.BalanceComputed {
			kind = "computed balance"
		}
		line += fmt.Sprintf(", %s %s on %s", kind, currencyutils.FormatAmount(*r.Balance), r.BalanceDate)
	}
	return line
}
