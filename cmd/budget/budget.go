// Package budget handles monthly budget commands
package budget

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"fintrack/bank-import/cmd/common"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/models"

	"github.com/spf13/cobra"
)

// Store persists budgets.
type Store interface {
	SetBudget(ctx context.Context, userID string, b models.Budget) error
	Budgets(ctx context.Context, userID string) ([]models.Budget, error)
}

var (
	userID   string
	category string
	limit    float64
)

// Cmd represents the budget command
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Set or list monthly category budgets",
	Long: `Set a monthly spending limit for a category with --category and --limit,
or list the user's budgets when no category is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithContainer(cmd.Context(), func(c *container.Container) error {
			return Run(cmd.Context(), c.GetStore(), userID, category, limit, cmd.OutOrStdout())
		})
	},
}

func init() {
	Cmd.Flags().StringVar(&userID, "user", "", "User identifier")
	Cmd.Flags().StringVar(&category, "category", "", "Category to budget")
	Cmd.Flags().Float64Var(&limit, "limit", 0, "Monthly limit")
	_ = Cmd.MarkFlagRequired("user")
}

// Run sets the budget when category is given, then lists the user's budgets.
func Run(ctx context.Context, st Store, userID, category string, limit float64, out io.Writer) error {
	if category != "" {
		if err := st.SetBudget(ctx, userID, models.Budget{Category: category, AmountLimit: limit}); err != nil {
			return err
		}
	}
	budgets, err := st.Budgets(ctx, userID)
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		_, err = fmt.Fprintf(out, "No budgets for %s\n", userID)
		return err
	}
	for _, b := range budgets {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", b.Category, strconv.FormatFloat(b.AmountLimit, 'f', 2, 64)); err != nil {
			return err
		}
	}
	return nil
}
