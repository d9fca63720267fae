// Package serve runs the HTTP API and the scheduled budget checks
package serve

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"fintrack/bank-import/cmd/root"
	"fintrack/bank-import/internal/container"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/importer"
	"fintrack/bank-import/internal/jobs"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/server"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// AlertJobName names the scheduled budget check.
const AlertJobName = "scheduled_budget_alerts"

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve imports, exports, forecasts, budget suggestions and exchange rates
over HTTP, and check every user's budgets on the configured schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c, err := root.NewContainer(ctx)
		if err != nil {
			return err
		}
		return Run(ctx, c, addr)
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: server.addr)")
}

// UserLister lists users to check.
type UserLister interface {
	UserIDs(ctx context.Context) ([]string, error)
}

// AlertJob checks the current month's budgets of every user.
func AlertJob(users UserLister, alerter *importer.BudgetAlerter, now func() time.Time, logger logging.Logger) jobs.Job {
	return jobs.Job{
		Name: AlertJobName,
		Run: func(ctx context.Context) error {
			ids, err := users.UserIDs(ctx)
			if err != nil {
				return err
			}
			month := dateutils.MonthOf(now().Format(dateutils.DateLayoutISO))
			sent, err := alerter.CheckUsers(ctx, ids, month)
			logger.Info("Scheduled budget check finished",
				logging.Field{Key: logging.FieldCount, Value: sent},
				logging.Field{Key: "users", Value: len(ids)})
			return err
		},
	}
}

// Run serves until ctx is cancelled, then shuts the server and c down.
func Run(ctx context.Context, c *container.Container, addr string) error {
	cfg := c.GetConfig()
	logger := c.GetLogger()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	scheduler := c.GetScheduler()
	if cfg.Server.AlertSchedule != "" {
		job := AlertJob(c.GetStore(), c.GetImporter().Alerter(), time.Now, logger)
		if err := scheduler.Add(cfg.Server.AlertSchedule, job); err != nil {
			_ = c.Close()
			return err
		}
	}
	scheduler.Start()

	srv := server.New(server.Config{
		Addr:           addr,
		RatePerSecond:  cfg.Server.RatePerSecond,
		Burst:          cfg.Server.Burst,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: cfg.Import.MaxFileBytes * 4,
		Importer:       c.GetImporter(),
		Store:          c.GetStore(),
		Reports:        c.GetReports(),
		Rates:          c.GetFX(),
		Throttle:       c.GetThrottle(),
		Logger:         logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}
	if err := c.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}
	return serveErr
}
