// Package suggest handles the budget suggestion command
package suggest

import (
	"context"
	"io"

	"fintrack/bank-import/cmd/common"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/report"

	"github.com/spf13/cobra"
)

var (
	userID string
	format string
)

// Reports builds budget suggestion reports.
type Reports interface {
	Suggestions(ctx context.Context, userID string) (report.SuggestionReport, error)
}

// Cmd represents the suggest command
var Cmd = &cobra.Command{
	Use:   "suggest --user ID",
	Short: "Suggest monthly budgets for categories without one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.WithContainer(cmd.Context(), func(c *container.Container) error {
			return Run(cmd.Context(), c.GetReports(), userID, format, cmd.OutOrStdout())
		})
	},
}

func init() {
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "User identifier")
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format: text or json")
	_ = Cmd.MarkFlagRequired("user")
}

// Run writes the budget suggestions of userID to out in format.
func Run(ctx context.Context, reports Reports, userID, format string, out io.Writer) error {
	rep, err := reports.Suggestions(ctx, userID)
	if err != nil {
		return err
	}
	return report.Render(out, rep, format)
}
