// Package analytics holds the pure statistics run over normalized transactions:
// anomaly detection, budget suggestion and spending forecasts.
//
// Every function here is deterministic, performs no I/O and is safe for concurrent use.
package analytics

import (
	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/models"
)

// Anomaly detection defaults
const (
	DefaultAnomalyThreshold = 2.0
	DefaultAnomalyMinAmount = 50.0
	// MaxAnomaliesPerImport caps how many anomalies one import may notify about.
	MaxAnomaliesPerImport = 5
)

// AnomalyOptions tunes DetectAnomalies. A zero Threshold selects the default;
// MinAmount is applied as given, so zero disables the floor.
type AnomalyOptions struct {
	// Threshold is the multiple of the historical average above which an expense is flagged.
	Threshold float64
	// MinAmount is the floor under which expenses are never flagged.
	MinAmount float64
}

// DefaultAnomalyOptions returns the default threshold and floor.
func DefaultAnomalyOptions() AnomalyOptions {
	return AnomalyOptions{Threshold: DefaultAnomalyThreshold, MinAmount: DefaultAnomalyMinAmount}
}

func (o AnomalyOptions) withDefaults() AnomalyOptions {
	if o.Threshold <= 0 {
		o.Threshold = DefaultAnomalyThreshold
	}
	return o
}

// DetectAnomalies flags expenses whose amount exceeds their category's historical
// average times the threshold. Input order is preserved.
//
// avgByCategory must be computed from transactions strictly older than the batch
// being checked. Categories without an average, or with a zero average, are ignored.
func DetectAnomalies(transactions []models.CategorizedTransaction, avgByCategory map[string]float64, opts AnomalyOptions) []models.Anomaly {
	opts = opts.withDefaults()
	anomalies := []models.Anomaly{}

	for _, tx := range transactions {
		if !tx.IsExpense() {
			continue
		}
		amount := tx.Amount.InexactFloat64()
		if amount < opts.MinAmount {
			continue
		}
		avg, ok := avgByCategory[tx.Category]
		if !ok || avg == 0 {
			continue
		}
		if amount <= avg*opts.Threshold {
			continue
		}
		anomalies = append(anomalies, models.Anomaly{
			Date:          tx.Date,
			Description:   tx.Description,
			Category:      tx.Category,
			Amount:        amount,
			HistoricalAvg: avg,
			Ratio:         currencyutils.Round1(amount / avg),
		})
	}
	return anomalies
}

// Cap returns at most n anomalies, keeping the first ones.
func Cap(anomalies []models.Anomaly, n int) []models.Anomaly {
	if n >= 0 && len(anomalies) > n {
		return anomalies[:n]
	}
	return anomalies
}
