// Package export handles the CSV export command
package export

import (
	"context"
	"io"

	"fintrack/bank-import/cmd/common"
	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/internal/container"
	csvexport "fintrack/bank-import/internal/export"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"

	"github.com/spf13/cobra"
)

// Store reads an account's transactions.
type Store interface {
	Account(ctx context.Context, id string) (models.Account, error)
	Transactions(ctx context.Context, accountID string) ([]models.StoredTransaction, error)
}

var (
	accountID string
	output    string
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export --account ID",
	Short: "Export an account's transactions as CSV",
	Long: `Export every stored transaction of an account as a UTF-8 CSV file that
opens directly in Excel. Without --output the CSV is written to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithContainer(cmd.Context(), func(c *container.Container) error {
			return Run(cmd.Context(), c.GetStore(), accountID, output, cmd.OutOrStdout(), root.Log)
		})
	},
}

func init() {
	Cmd.Flags().StringVarP(&accountID, "account", "a", "", "Account identifier")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV file")
	_ = Cmd.MarkFlagRequired("account")
}

// Run exports accountID to path, or to out when path is empty.
func Run(ctx context.Context, st Store, accountID, path string, out io.Writer, logger logging.Logger) error {
	if _, err := st.Account(ctx, accountID); err != nil {
		return err
	}
	txs, err := st.Transactions(ctx, accountID)
	if err != nil {
		return err
	}
	if path == "" {
		return csvexport.Write(out, txs)
	}
	return csvexport.WriteFile(path, txs, logger)
}
