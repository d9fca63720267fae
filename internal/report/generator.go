// Package report builds forecast and budget-suggestion reports from stored spending
// and renders them as JSON or text tables.
package report

import (
	"context"
	"sort"
	"time"

	"fintrack/bank-import/internal/analytics"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
)

// Defaults for Options.
const (
	DefaultForecastMonths = 6
	DefaultBudgetMonths   = 3
)

// Store is the data needed to build reports.
type Store interface {
	Budgets(ctx context.Context, userID string) ([]models.Budget, error)
	MonthlyTrend(ctx context.Context, userID, fromMonth, toMonth string) ([]models.TrendEntry, error)
}

// Options sets the history windows, counted in complete months before the current one.
type Options struct {
	ForecastMonths int
	BudgetMonths   int
	MaxSuggestions int
}

// ForecastReport is the per-category forecast of a user.
type ForecastReport struct {
	UserID    string                    `json:"user_id"`
	From      string                    `json:"from"`
	To        string                    `json:"to"`
	Forecasts []models.CategoryForecast `json:"forecasts"`
}

// SuggestionReport lists budget suggestions for a user.
type SuggestionReport struct {
	UserID      string                    `json:"user_id"`
	From        string                    `json:"from"`
	To          string                    `json:"to"`
	Suggestions []models.BudgetSuggestion `json:"suggestions"`
}

// Generator builds reports.
type Generator struct {
	store  Store
	opts   Options
	logger logging.Logger
	now    func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator(store Store, opts Options, logger logging.Logger) *Generator {
	if opts.ForecastMonths <= 0 {
		opts.ForecastMonths = DefaultForecastMonths
	}
	if opts.BudgetMonths <= 0 {
		opts.BudgetMonths = DefaultBudgetMonths
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = analytics.DefaultMaxSuggestions
	}
	return &Generator{store: store, opts: opts, logger: logging.OrDefault(logger), now: time.Now}
}

// Forecast computes the user's category forecast over the forecast window.
func (g *Generator) Forecast(ctx context.Context, userID string) (ForecastReport, error) {
	from, to := g.window(g.opts.ForecastMonths)
	trend, err := g.store.MonthlyTrend(ctx, userID, from, to)
	if err != nil {
		return ForecastReport{}, err
	}
	budgets, err := g.store.Budgets(ctx, userID)
	if err != nil {
		return ForecastReport{}, err
	}

	forecasts := analytics.ComputeForecast(trend, budgets)
	g.logger.Debug("Forecast computed",
		logging.Field{Key: logging.FieldUser, Value: userID},
		logging.Field{Key: logging.FieldCount, Value: len(forecasts)})
	return ForecastReport{UserID: userID, From: from, To: to, Forecasts: forecasts}, nil
}

// Suggestions proposes budgets for the user's unbudgeted categories.
func (g *Generator) Suggestions(ctx context.Context, userID string) (SuggestionReport, error) {
	from, to := g.window(g.opts.BudgetMonths)
	trend, err := g.store.MonthlyTrend(ctx, userID, from, to)
	if err != nil {
		return SuggestionReport{}, err
	}
	budgets, err := g.store.Budgets(ctx, userID)
	if err != nil {
		return SuggestionReport{}, err
	}
	existing := make([]string, 0, len(budgets))
	for _, b := range budgets {
		existing = append(existing, b.Category)
	}

	suggestions := analytics.SuggestBudgets(CategoryExpenses(trend), existing, g.opts.MaxSuggestions)
	return SuggestionReport{UserID: userID, From: from, To: to, Suggestions: suggestions}, nil
}

// window returns the first and last month of the n complete months before now.
func (g *Generator) window(n int) (from, to string) {
	now := g.now()
	return dateutils.MonthsBack(now, n).Format("2006-01"), dateutils.MonthsBack(now, 1).Format("2006-01")
}

// CategoryExpenses groups trend entries by category with monthly amounts oldest
// first. Categories are ordered by total spend, largest first, then by name.
func CategoryExpenses(trend []models.TrendEntry) []models.CategoryExpense {
	sorted := make([]models.TrendEntry, len(trend))
	copy(sorted, trend)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })

	index := make(map[string]int)
	var expenses []models.CategoryExpense
	totals := make(map[string]float64)
	for _, e := range sorted {
		i, ok := index[e.Category]
		if !ok {
			i = len(expenses)
			index[e.Category] = i
			expenses = append(expenses, models.CategoryExpense{Category: e.Category})
		}
		expenses[i].MonthlyAmounts = append(expenses[i].MonthlyAmounts, e.Amount)
		totals[e.Category] += e.Amount
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		ti, tj := totals[expenses[i].Category], totals[expenses[j].Category]
		if ti != tj {
			return ti > tj
		}
		return expenses[i].Category < expenses[j].Category
	})
	return expenses
}
