// Package forecast handles the spending forecast command
package forecast

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

// Reports builds forecast reports.
type Reports interface {
	Forecast(ctx context.Context, userID string) (report.ForecastReport, error)
}

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast --user ID",
	Short: "Show average spending, trend and budget status per category",
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

// Run writes the forecast of userID to out in format.
func Run(ctx context.Context, reports Reports, userID, format string, out io.Writer) error {
	rep, err := reports.Forecast(ctx, userID)
	if err != nil {
		return err
	}
	return report.Render(out, rep, format)
}
