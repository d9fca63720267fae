package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	trend    []models.TrendEntry
	budgets  []models.Budget
	err      error
	from, to string
}

func (f *fakeStore) Budgets(context.Context, string) ([]models.Budget, error) {
	return f.budgets, f.err
}

func (f *fakeStore) MonthlyTrend(_ context.Context, _, from, to string) ([]models.TrendEntry, error) {
	f.from, f.to = from, to
	return f.trend, f.err
}

func newTestGenerator(st Store) *Generator {
	g := NewGenerator(st, Options{ForecastMonths: 3, BudgetMonths: 2}, logging.NewMockLogger())
	g.now = func() time.Time { return time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC) }
	return g
}

var sampleTrend = []models.TrendEntry{
	{Month: "2026-01", Category: "Alimentation", Amount: 400},
	{Month: "2026-02", Category: "Alimentation", Amount: 420},
	{Month: "2026-03", Category: "Alimentation", Amount: 500},
	{Month: "2026-02", Category: "Loisirs", Amount: 100},
	{Month: "2026-03", Category: "Loisirs", Amount: 140},
	{Month: "2026-03", Category: "Santé", Amount: 30},
}

func TestForecast(t *testing.T) {
	st := &fakeStore{trend: sampleTrend, budgets: []models.Budget{{Category: "Alimentation", AmountLimit: 400}}}
	g := newTestGenerator(st)

	r, err := g.Forecast(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-01", st.from)
	assert.Equal(t, "2026-03", st.to)
	assert.Equal(t, "2026-01", r.From)
	require.Len(t, r.Forecasts, 3)
	assert.Equal(t, "Alimentation", r.Forecasts[0].Category)
	assert.Equal(t, models.StatusExceeded, r.Forecasts[0].Status)
}

func TestSuggestions(t *testing.T) {
	st := &fakeStore{trend: sampleTrend, budgets: []models.Budget{{Category: "Alimentation", AmountLimit: 400}}}
	g := newTestGenerator(st)

	r, err := g.Suggestions(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-02", st.from)
	require.Len(t, r.Suggestions, 1, "budgeted and single-month categories are skipped")
	assert.Equal(t, "Loisirs", r.Suggestions[0].Category)
	assert.Equal(t, 120.0, r.Suggestions[0].SuggestedLimit)
}

func TestReports_StoreError(t *testing.T) {
	g := newTestGenerator(&fakeStore{err: errors.New("db closed")})
	_, err := g.Forecast(context.Background(), "u1")
	assert.Error(t, err)
	_, err = g.Suggestions(context.Background(), "u1")
	assert.Error(t, err)
}

func TestCategoryExpenses(t *testing.T) {
	expenses := CategoryExpenses([]models.TrendEntry{
		{Month: "2026-03", Category: "Loisirs", Amount: 140},
		{Month: "2026-02", Category: "Loisirs", Amount: 100},
		{Month: "2026-02", Category: "Alimentation", Amount: 420},
		{Month: "2026-02", Category: "Cadeaux", Amount: 240},
	})
	require.Len(t, expenses, 3)
	assert.Equal(t, "Alimentation", expenses[0].Category)
	assert.Equal(t, "Cadeaux", expenses[1].Category, "ties broken by name")
	assert.Equal(t, []float64{100, 140}, expenses[2].MonthlyAmounts, "oldest month first")
}

func TestRender(t *testing.T) {
	limit := 400.0
	forecast := ForecastReport{UserID: "u1", From: "2026-01", To: "2026-03", Forecasts: []models.CategoryForecast{
		{Category: "Alimentation", AvgAmount: 440, LastMonthAmount: 500, Months: 3, Trend: models.TrendUp, BudgetLimit: &limit, Status: models.StatusExceeded},
		{Category: "Santé", AvgAmount: 30, LastMonthAmount: 30, Months: 1, Trend: models.TrendStable, Status: models.StatusNoBudget},
	}}

	var text bytes.Buffer
	require.NoError(t, Render(&text, forecast, FormatText))
	out := text.String()
	assert.Contains(t, out, "Prévisions 2026-01 → 2026-03")
	assert.Contains(t, out, "Alimentation")
	assert.Contains(t, out, "440.00")
	assert.Contains(t, out, "exceeded")

	var js bytes.Buffer
	require.NoError(t, Render(&js, forecast, FormatJSON))
	var decoded ForecastReport
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, forecast.Forecasts[0].Category, decoded.Forecasts[0].Category)
	assert.Nil(t, decoded.Forecasts[1].BudgetLimit)

	var sugg bytes.Buffer
	require.NoError(t, Render(&sugg, SuggestionReport{Suggestions: []models.BudgetSuggestion{
		{Category: "Loisirs", SuggestedLimit: 120, AverageSpend: 120, MonthsOfData: 2, Confidence: models.ConfidenceMedium},
	}}, FormatText))
	assert.Contains(t, sugg.String(), "medium")

	assert.Error(t, Render(&text, forecast, "xml"))
	assert.Error(t, Render(&text, 42, FormatText))
}
