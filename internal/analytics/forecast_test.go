package analytics

import (
	"testing"

	"fintrack/bank-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeForecast_Empty(t *testing.T) {
	forecasts := ComputeForecast(nil, []models.Budget{{Category: "Loisirs", AmountLimit: 100}})
	assert.NotNil(t, forecasts)
	assert.Empty(t, forecasts)
}

func TestComputeForecast(t *testing.T) {
	trend := []models.TrendEntry{
		{Month: "2026-03", Category: "Alimentation", Amount: 500},
		{Month: "2026-01", Category: "Alimentation", Amount: 400},
		{Month: "2026-02", Category: "Alimentation", Amount: 420},
		{Month: "2026-01", Category: "Transport", Amount: 120},
		{Month: "2026-02", Category: "Transport", Amount: 80},
		{Month: "2026-03", Category: "Transport", Amount: 70},
		{Month: "2026-03", Category: "Santé", Amount: 60},
		{Month: "2026-02", Category: "Loisirs", Amount: 100},
		{Month: "2026-03", Category: "Loisirs", Amount: 102},
	}
	budgets := []models.Budget{
		{Category: "Alimentation", AmountLimit: 400},
		{Category: "Transport", AmountLimit: 110},
		{Category: "Loisirs", AmountLimit: 200},
	}

	forecasts := ComputeForecast(trend, budgets)
	require.Len(t, forecasts, 4)

	assert.Equal(t, []string{"Alimentation", "Loisirs", "Transport", "Santé"}, []string{
		forecasts[0].Category, forecasts[1].Category, forecasts[2].Category, forecasts[3].Category,
	})

	food := forecasts[0]
	assert.Equal(t, 440.0, food.AvgAmount)
	assert.Equal(t, 500.0, food.LastMonthAmount)
	assert.Equal(t, 3, food.Months)
	assert.Equal(t, models.TrendUp, food.Trend)
	assert.Equal(t, models.StatusExceeded, food.Status)
	require.NotNil(t, food.BudgetLimit)
	assert.Equal(t, 400.0, *food.BudgetLimit)

	leisure := forecasts[1]
	assert.Equal(t, models.TrendStable, leisure.Trend, "+1% is within tolerance")
	assert.Equal(t, models.StatusOnTrack, leisure.Status)

	transport := forecasts[2]
	assert.Equal(t, 90.0, transport.AvgAmount)
	assert.Equal(t, models.TrendDown, transport.Trend)
	assert.Equal(t, models.StatusAtRisk, transport.Status)

	health := forecasts[3]
	assert.Equal(t, models.TrendStable, health.Trend, "a single month carries no trend")
	assert.Equal(t, models.StatusNoBudget, health.Status)
	assert.Nil(t, health.BudgetLimit)
}

func TestComputeForecast_ZeroAverage(t *testing.T) {
	forecasts := ComputeForecast([]models.TrendEntry{
		{Month: "2026-01", Category: "Cadeaux", Amount: 0},
		{Month: "2026-02", Category: "Cadeaux", Amount: 0},
	}, nil)

	require.Len(t, forecasts, 1)
	assert.Equal(t, models.TrendStable, forecasts[0].Trend)
	assert.Equal(t, models.StatusNoBudget, forecasts[0].Status)
}

func TestComputeForecast_TiesSortedByCategory(t *testing.T) {
	forecasts := ComputeForecast([]models.TrendEntry{
		{Month: "2026-01", Category: "b", Amount: 10},
		{Month: "2026-01", Category: "a", Amount: 10},
	}, nil)

	require.Len(t, forecasts, 2)
	assert.Equal(t, "a", forecasts[0].Category)
}
