// Package importer turns uploaded statement files into stored, categorized
// transactions and schedules the analytics that follow an import.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"fintrack/bank-import/internal/analytics"
	"fintrack/bank-import/internal/categorizer"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/jobs"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/notify"
	"fintrack/bank-import/internal/parser"
	"fintrack/bank-import/internal/source"
	"fintrack/bank-import/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Defaults for Options.
const (
	DefaultMaxFileBytes = 10 << 20
	DefaultParallelism  = 4
)

// ErrFileTooLarge is returned for files above Options.MaxFileBytes.
var ErrFileTooLarge = errors.New("file too large")

// Store is the persistence used by the importer.
type Store interface {
	AlertStore
	Account(ctx context.Context, id string) (models.Account, error)
	SaveImport(ctx context.Context, batch models.ImportBatch, txs []models.CategorizedTransaction, balance *store.BalanceUpdate) error
	CategoryAverages(ctx context.Context, userID, before string) (map[string]float64, error)
}

// Enqueuer schedules background jobs.
type Enqueuer interface {
	Enqueue(job jobs.Job) error
}

// Options tunes the importer. An entirely unset Anomaly uses
// analytics.DefaultAnomalyOptions; otherwise its values are applied as given.
type Options struct {
	Anomaly      analytics.AnomalyOptions
	NotifyLimit  int
	MaxFileBytes int64
	Parallelism  int
}

func (o Options) withDefaults() Options {
	if o.Anomaly == (analytics.AnomalyOptions{}) {
		o.Anomaly = analytics.DefaultAnomalyOptions()
	}
	if o.NotifyLimit <= 0 {
		o.NotifyLimit = analytics.MaxAnomaliesPerImport
	}
	if o.MaxFileBytes <= 0 {
		o.MaxFileBytes = DefaultMaxFileBytes
	}
	if o.Parallelism <= 0 {
		o.Parallelism = DefaultParallelism
	}
	return o
}

// File is one uploaded statement.
type File struct {
	Name string
	Data []byte
}

// Report summarizes the import of one file.
type Report struct {
	Filename        string           `json:"filename"`
	BatchID         string           `json:"batch_id,omitempty"`
	BankName        string           `json:"bank_name,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	Imported        int              `json:"imported"`
	Skipped         int              `json:"skipped"`
	From            string           `json:"from,omitempty"`
	To              string           `json:"to,omitempty"`
	Balance         *decimal.Decimal `json:"balance,omitempty"`
	BalanceDate     string           `json:"balance_date,omitempty"`
	BalanceComputed bool             `json:"balance_computed,omitempty"`
	AnalyticsQueued bool             `json:"analytics_queued"`
	Error           string           `json:"error,omitempty"`
}

// Importer runs the import pipeline: decode, dispatch, categorize, persist, then
// queue anomaly detection and budget alerts.
type Importer struct {
	decoder     *source.Decoder
	dispatcher  *parser.Dispatcher
	categorizer *categorizer.Categorizer
	store       Store
	queue       Enqueuer
	notifier    notify.Notifier
	alerter     *BudgetAlerter
	opts        Options
	locks       *keyedMutex
	logger      logging.Logger

	newID func() string
	now   func() time.Time
}

// New creates an Importer. queue may be nil, in which case post-import analytics
// are skipped.
func New(
	decoder *source.Decoder,
	dispatcher *parser.Dispatcher,
	cat *categorizer.Categorizer,
	st Store,
	queue Enqueuer,
	notifier notify.Notifier,
	opts Options,
	logger logging.Logger,
) *Importer {
	logger = logging.OrDefault(logger)
	return &Importer{
		decoder:     decoder,
		dispatcher:  dispatcher,
		categorizer: cat,
		store:       st,
		queue:       queue,
		notifier:    notifier,
		alerter:     NewBudgetAlerter(st, notifier, logger),
		opts:        opts.withDefaults(),
		locks:       newKeyedMutex(),
		logger:      logger,
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Alerter returns the budget alerter used after imports.
func (im *Importer) Alerter() *BudgetAlerter {
	return im.alerter
}

// ImportFile imports one statement into accountID. Unrecognized formats return a
// *parsererror.UnrecognizedFormatError and leave the account untouched.
func (im *Importer) ImportFile(ctx context.Context, accountID, filename string, data []byte) (Report, error) {
	report := Report{Filename: filepath.Base(filename)}
	logger := im.logger.WithFields(
		logging.Field{Key: logging.FieldAccount, Value: accountID},
		logging.Field{Key: logging.FieldFile, Value: report.Filename},
	)

	if int64(len(data)) > im.opts.MaxFileBytes {
		return report, fmt.Errorf("%s: %w (%d bytes)", report.Filename, ErrFileTooLarge, len(data))
	}

	content, err := im.decoder.Decode(filename, data)
	if err != nil {
		return report, fmt.Errorf("failed to decode %s: %w", report.Filename, err)
	}

	unlock := im.locks.Lock(accountID)
	defer unlock()

	account, err := im.store.Account(ctx, accountID)
	if err != nil {
		return report, err
	}

	result, err := im.dispatcher.DispatchWithBalance(filename, &content, account.Balance)
	if err != nil {
		return report, err
	}
	report.BankName = result.BankName
	report.Currency = result.Currency
	report.Skipped = result.SkippedRows
	if len(result.Transactions) == 0 {
		logger.Info("No transactions found, nothing imported")
		return report, nil
	}

	txs := im.categorizer.CategorizeAll(ctx, result.Transactions, result.Currency)
	balance, computed := nextBalance(account.Balance, result)

	batch := models.ImportBatch{
		ID:        im.newID(),
		AccountID: accountID,
		Filename:  report.Filename,
		BankName:  result.BankName,
		Currency:  result.Currency,
		Imported:  len(txs),
		Skipped:   result.SkippedRows,
		CreatedAt: im.now(),
	}
	if err := im.store.SaveImport(ctx, batch, txs, balance); err != nil {
		return report, err
	}

	report.BatchID = batch.ID
	report.Imported = len(txs)
	report.From = result.EarliestDate()
	report.To = result.LatestDate()
	if balance != nil {
		b := balance.Amount
		report.Balance = &b
		report.BalanceDate = balance.Date
		report.BalanceComputed = computed
	}

	logger.Info("Statement imported",
		logging.Field{Key: logging.FieldBatch, Value: batch.ID},
		logging.Field{Key: logging.FieldBank, Value: batch.BankName},
		logging.Field{Key: logging.FieldCount, Value: batch.Imported},
		logging.Field{Key: logging.FieldSkipped, Value: batch.Skipped})

	report.AnalyticsQueued = im.enqueueAnalytics(account.UserID, txs, report.From)
	return report, nil
}

// ImportFiles imports files concurrently into accountID. Each file succeeds or fails
// on its own; reports keep the order of files.
func (im *Importer) ImportFiles(ctx context.Context, accountID string, files []File) []Report {
	reports := make([]Report, len(files))
	var g errgroup.Group
	g.SetLimit(im.opts.Parallelism)

	for i, f := range files {
		g.Go(func() error {
			report, err := im.ImportFile(ctx, accountID, f.Name, f.Data)
			if err != nil {
				report.Error = err.Error()
				im.logger.WithError(err).Warn("File import failed",
					logging.Field{Key: logging.FieldAccount, Value: accountID},
					logging.Field{Key: logging.FieldFile, Value: f.Name})
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

// nextBalance prefers the balance printed on the statement; otherwise it moves the
// previous balance by the imported totals.
func nextBalance(previous *decimal.Decimal, result models.ParseResult) (*store.BalanceUpdate, bool) {
	if result.DetectedBalance != nil {
		date := result.LatestDate()
		if result.DetectedBalanceDate != nil {
			date = *result.DetectedBalanceDate
		}
		return &store.BalanceUpdate{Amount: *result.DetectedBalance, Date: date}, false
	}
	if previous == nil {
		return nil, false
	}
	income, expense := result.Totals()
	return &store.BalanceUpdate{Amount: previous.Add(income).Sub(expense), Date: result.LatestDate()}, true
}

func (im *Importer) enqueueAnalytics(userID string, txs []models.CategorizedTransaction, earliest string) bool {
	if im.queue == nil || im.notifier == nil {
		return false
	}

	anomalyJob := jobs.Job{
		Name: "anomaly_detection",
		Run: func(ctx context.Context) error {
			return im.notifyAnomalies(ctx, userID, txs, earliest)
		},
	}
	month := dateutils.MonthOf(im.now().Format(dateutils.DateLayoutISO))
	alertJob := jobs.Job{
		Name: "budget_alerts",
		Run: func(ctx context.Context) error {
			_, err := im.alerter.Check(ctx, userID, month)
			return err
		},
	}

	queued := true
	for _, job := range []jobs.Job{anomalyJob, alertJob} {
		if err := im.queue.Enqueue(job); err != nil {
			im.logger.WithError(err).WithField(logging.FieldJob, job.Name).Warn("Failed to queue post-import job")
			queued = false
		}
	}
	return queued
}

// notifyAnomalies compares the new expenses with averages computed from transactions
// strictly older than the batch, and notifies at most NotifyLimit of them.
func (im *Importer) notifyAnomalies(ctx context.Context, userID string, txs []models.CategorizedTransaction, earliest string) error {
	averages, err := im.store.CategoryAverages(ctx, userID, earliest)
	if err != nil {
		return err
	}
	anomalies := analytics.Cap(analytics.DetectAnomalies(txs, averages, im.opts.Anomaly), im.opts.NotifyLimit)

	var errs []error
	for _, a := range anomalies {
		n := models.Notification{
			UserID: userID,
			Kind:   models.NotificationAnomaly,
			Title:  fmt.Sprintf("Dépense inhabituelle : %s", a.Description),
			Body: fmt.Sprintf("%.2f le %s en %s, soit %.1f fois la moyenne (%.2f).",
				a.Amount, a.Date, a.Category, a.Ratio, a.HistoricalAvg),
		}
		if err := im.notifier.Notify(ctx, n); err != nil && !errors.Is(err, notify.ErrDuplicate) {
			errs = append(errs, err)
		}
	}
	if len(anomalies) > 0 {
		im.logger.Info("Anomalies detected",
			logging.Field{Key: logging.FieldUser, Value: userID},
			logging.Field{Key: logging.FieldCount, Value: len(anomalies)})
	}
	return errors.Join(errs...)
}
