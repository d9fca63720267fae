// Package container provides dependency injection for the bank-import application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fintrack/bank-import/internal/analytics"
	"fintrack/bank-import/internal/categorizer"
	"fintrack/bank-import/internal/config"
	"fintrack/bank-import/internal/fxrate"
	"fintrack/bank-import/internal/importer"
	"fintrack/bank-import/internal/jobs"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/notify"
	"fintrack/bank-import/internal/parser"
	"fintrack/bank-import/internal/report"
	"fintrack/bank-import/internal/source"
	"fintrack/bank-import/internal/store"
	"fintrack/bank-import/internal/throttle"

	"github.com/shopspring/decimal"
)

const fxHTTPTimeout = 10 * time.Second

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.SQLiteStore
	gemini      *categorizer.GeminiGenerator
	categorizer *categorizer.Categorizer
	dispatcher  *parser.Dispatcher
	decoder     *source.Decoder
	notifier    notify.Notifier
	queue       *jobs.Queue
	scheduler   *jobs.Scheduler
	importer    *importer.Importer
	reports     *report.Generator
	fx          *fxrate.Service
	throttle    *throttle.Throttle

	closeOnce sync.Once
	closeErr  error
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return newContainer(ctx, cfg, config.NewLogger(cfg))
}

func newContainer(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	rules, err := categorizer.LoadRules(cfg.Categories.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}

	var fallback decimal.Decimal
	if cfg.FX.FallbackRate != "" {
		fallback, err = decimal.NewFromString(cfg.FX.FallbackRate)
		if err != nil {
			return nil, fmt.Errorf("invalid fx.fallback_rate %q: %w", cfg.FX.FallbackRate, err)
		}
	}

	st, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	c := &Container{logger: logger, config: cfg, store: st}

	var ai categorizer.TextGenerator
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		c.gemini, err = categorizer.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		ai = c.gemini
		logger.Info("AI categorization enabled")
	} else {
		logger.Info("AI categorization disabled")
	}
	c.categorizer = categorizer.NewFromRules(rules, ai, logger)

	c.dispatcher = parser.NewDispatcher(logger)
	c.decoder = source.NewDecoder(nil, nil, logger)

	var outbound notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.MailgunEnabled() {
		outbound, err = notify.NewMailgunNotifier(notify.MailgunConfig{
			Domain:    cfg.Mailgun.Domain,
			APIKey:    cfg.Mailgun.APIKey,
			Sender:    cfg.Mailgun.Sender,
			Recipient: cfg.Mailgun.Recipient,
		}, logger)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	// The store notifier deduplicates, so it must come first.
	c.notifier = notify.Multi{notify.NewStoreNotifier(st), outbound}

	c.queue = jobs.NewQueue(cfg.Jobs.Workers, cfg.Jobs.Capacity, cfg.Jobs.Timeout, logger)
	c.scheduler = jobs.NewScheduler(c.queue, logger)

	c.importer = importer.New(c.decoder, c.dispatcher, c.categorizer, st, c.queue, c.notifier, importer.Options{
		Anomaly: analytics.AnomalyOptions{
			Threshold: cfg.Anomaly.Threshold,
			MinAmount: cfg.Anomaly.MinAmount,
		},
		NotifyLimit:  cfg.Import.NotifyLimit,
		MaxFileBytes: cfg.Import.MaxFileBytes,
		Parallelism:  cfg.Import.Parallelism,
	}, logger)

	c.reports = report.NewGenerator(st, report.Options{
		ForecastMonths: cfg.Forecast.Months,
		BudgetMonths:   cfg.Budget.Months,
		MaxSuggestions: cfg.Budget.MaxSuggestions,
	}, logger)

	fetcher := fxrate.NewHTTPFetcher(cfg.FX.BaseURL, &http.Client{Timeout: fxHTTPTimeout})
	c.fx = fxrate.NewService(fetcher, cfg.FX.TTL, fallback, logger)
	c.throttle = throttle.New(cfg.Throttle.Limit, cfg.Throttle.Window)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "banks_count", Value: len(c.dispatcher.Banks())},
		logging.Field{Key: "ai_enabled", Value: ai != nil},
		logging.Field{Key: "mailgun_enabled", Value: cfg.MailgunEnabled()})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStore returns the SQLite store.
func (c *Container) GetStore() *store.SQLiteStore { return c.store }

// GetCategorizer returns the categorizer.
func (c *Container) GetCategorizer() *categorizer.Categorizer { return c.categorizer }

// GetDispatcher returns the bank format dispatcher.
func (c *Container) GetDispatcher() *parser.Dispatcher { return c.dispatcher }

// GetDecoder returns the source decoder.
func (c *Container) GetDecoder() *source.Decoder { return c.decoder }

// GetNotifier returns the notification fan-out.
func (c *Container) GetNotifier() notify.Notifier { return c.notifier }

// GetScheduler returns the cron scheduler. It is not started.
func (c *Container) GetScheduler() *jobs.Scheduler { return c.scheduler }

// GetImporter returns the import orchestrator.
func (c *Container) GetImporter() *importer.Importer { return c.importer }

// GetReports returns the report generator.
func (c *Container) GetReports() *report.Generator { return c.reports }

// GetFX returns the exchange-rate service.
func (c *Container) GetFX() *fxrate.Service { return c.fx }

// GetThrottle returns the per-identity request throttle.
func (c *Container) GetThrottle() *throttle.Throttle { return c.throttle }

// Close drains background jobs, then releases the AI client and the database.
func (c *Container) Close() error {
	return c.Shutdown(context.Background())
}

// Shutdown is Close bounded by ctx for draining queued jobs. Only the first
// call has an effect.
func (c *Container) Shutdown(ctx context.Context) error {
	c.closeOnce.Do(func() { c.closeErr = c.shutdown(ctx) })
	return c.closeErr
}

func (c *Container) shutdown(ctx context.Context) error {
	var errs []error
	if c.scheduler != nil {
		c.scheduler.Stop(ctx)
	}
	if c.queue != nil {
		if err := c.queue.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("job queue: %w", err))
		}
	}
	if c.gemini != nil {
		if err := c.gemini.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gemini client: %w", err))
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	c.logger.Info("Container closed")
	return errors.Join(errs...)
}
