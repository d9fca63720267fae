package analytics

import (
	"math"
	"sort"

	"fintrack/bank-import/internal/models"

	"gonum.org/v1/gonum/stat"
)

const (
	trendTolerance = 0.05
	atRiskRatio    = 0.8
)

// ComputeForecast summarizes multi-month spend per category and compares it with
// the category's budget.
//
// Results are sorted by average spend, largest first; equal averages are ordered by
// category name.
func ComputeForecast(trend []models.TrendEntry, budgets []models.Budget) []models.CategoryForecast {
	byCategory := make(map[string][]models.TrendEntry)
	var order []string
	for _, e := range trend {
		if _, seen := byCategory[e.Category]; !seen {
			order = append(order, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	limits := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		limits[b.Category] = b.AmountLimit
	}

	forecasts := make([]models.CategoryForecast, 0, len(order))
	for _, category := range order {
		entries := byCategory[category]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Month < entries[j].Month })

		amounts := make([]float64, len(entries))
		for i, e := range entries {
			amounts[i] = e.Amount
		}
		avg := stat.Mean(amounts, nil)
		last := amounts[len(amounts)-1]

		f := models.CategoryForecast{
			Category:        category,
			AvgAmount:       round2(avg),
			LastMonthAmount: last,
			Months:          len(amounts),
			Trend:           classifyTrend(avg, last, len(amounts)),
			Status:          models.StatusNoBudget,
		}
		if limit, ok := limits[category]; ok {
			l := limit
			f.BudgetLimit = &l
			f.Status = classifyStatus(avg, limit)
		}
		forecasts = append(forecasts, f)
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		if forecasts[i].AvgAmount != forecasts[j].AvgAmount {
			return forecasts[i].AvgAmount > forecasts[j].AvgAmount
		}
		return forecasts[i].Category < forecasts[j].Category
	})
	return forecasts
}

func classifyTrend(avg, last float64, months int) models.Trend {
	if months < 2 {
		return models.TrendStable
	}
	base := avg
	if base == 0 {
		base = 1
	}
	ratio := (last - avg) / base
	switch {
	case ratio > trendTolerance:
		return models.TrendUp
	case ratio < -trendTolerance:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

func classifyStatus(avg, limit float64) models.BudgetStatus {
	switch {
	case avg > limit:
		return models.StatusExceeded
	case avg >= limit*atRiskRatio:
		return models.StatusAtRisk
	default:
		return models.StatusOnTrack
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
