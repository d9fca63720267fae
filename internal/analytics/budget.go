package analytics

import (
	"math"

	"fintrack/bank-import/internal/models"

	"gonum.org/v1/gonum/stat"
)

// Budget suggestion defaults
const (
	DefaultMaxSuggestions = 8
	minSuggestionMonths   = 2
	highConfidenceMonths  = 3
	highConfidenceCV      = 0.15
	mediumConfidenceCV    = 0.30
	suggestionRounding    = 10.0
)

// SuggestBudgets proposes monthly limits for categories that have no budget yet.
//
// Categories in existing and categories with fewer than two months of data are
// skipped. The limit is the monthly mean rounded up to the next multiple of ten, so
// it is never below observed spend. Caller order is preserved and at most
// maxSuggestions are returned; callers without a preference pass DefaultMaxSuggestions.
func SuggestBudgets(expenses []models.CategoryExpense, existing []string, maxSuggestions int) []models.BudgetSuggestion {
	budgeted := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		budgeted[c] = struct{}{}
	}

	suggestions := []models.BudgetSuggestion{}
	for _, e := range expenses {
		if len(suggestions) >= maxSuggestions {
			break
		}
		if _, ok := budgeted[e.Category]; ok {
			continue
		}
		months := len(e.MonthlyAmounts)
		if months < minSuggestionMonths {
			continue
		}

		mean, std := stat.PopMeanStdDev(e.MonthlyAmounts, nil)
		suggestions = append(suggestions, models.BudgetSuggestion{
			Category:       e.Category,
			SuggestedLimit: roundUpTo(mean, suggestionRounding),
			AverageSpend:   math.Round(mean*100) / 100,
			MonthsOfData:   months,
			Confidence:     confidenceFor(months, coefficientOfVariation(mean, std)),
		})
	}
	return suggestions
}

func coefficientOfVariation(mean, std float64) float64 {
	if mean == 0 {
		return 0
	}
	return std / mean
}

func confidenceFor(months int, cv float64) models.Confidence {
	switch {
	case months >= highConfidenceMonths && cv <= highConfidenceCV:
		return models.ConfidenceHigh
	case cv <= mediumConfidenceCV:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// roundUpTo rounds v up to the next multiple of step.
func roundUpTo(v, step float64) float64 {
	return math.Ceil(v/step) * step
}
