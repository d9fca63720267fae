// Package account handles account registration commands
package account

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fintrack/bank-import/cmd/common"
	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/models"

	"github.com/spf13/cobra"
)

// Store persists accounts.
type Store interface {
	SaveAccount(ctx context.Context, a models.Account) error
}

var flags models.Account

// Cmd represents the account command
var Cmd = &cobra.Command{
	Use:   "account",
	Short: "Create or update an account",
	Long: `Create an account statements can be imported into, or update its name,
bank and currency. Balances are only changed by imports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithContainer(cmd.Context(), func(c *container.Container) error {
			return Save(cmd.Context(), c.GetStore(), flags, cmd.OutOrStdout())
		})
	},
}

func init() {
	Cmd.Flags().StringVar(&flags.ID, "id", "", "Account identifier")
	Cmd.Flags().StringVar(&flags.UserID, "user", "", "Owner user identifier")
	Cmd.Flags().StringVar(&flags.Name, "name", "", "Display name")
	Cmd.Flags().StringVar(&flags.BankName, "bank", "", "Bank name")
	Cmd.Flags().StringVar(&flags.Currency, "currency", "", "ISO 4217 currency (default: detected on first import)")
	_ = Cmd.MarkFlagRequired("id")
	_ = Cmd.MarkFlagRequired("user")
}

// Save stores a and reports it on out.
func Save(ctx context.Context, st Store, a models.Account, out io.Writer) error {
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if a.Name == "" {
		a.Name = a.ID
	}
	if err := st.SaveAccount(ctx, a); err != nil {
		return err
	}
	root.Log.Info("Account saved")
	_, err := fmt.Fprintf(out, "Account %s saved for user %s\n", a.ID, a.UserID)
	return err
}
