package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Render writes a ForecastReport or SuggestionReport in format.
func Render(w io.Writer, report any, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode JSON report: %w", err)
		}
		return nil
	case FormatText, "":
		text, err := renderText(report)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text+"\n")
		return err
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func renderText(report any) (string, error) {
	switch r := report.(type) {
	case ForecastReport:
		rows := make([][]string, 0, len(r.Forecasts))
		for _, f := range r.Forecasts {
			limit := "-"
			if f.BudgetLimit != nil {
				limit = money(*f.BudgetLimit)
			}
			rows = append(rows, []string{
				f.Category, money(f.AvgAmount), money(f.LastMonthAmount),
				strconv.Itoa(f.Months), string(f.Trend), limit, string(f.Status),
			})
		}
		title := fmt.Sprintf("Prévisions %s → %s", r.From, r.To)
		return title + "\n" + newTable(rows, "Catégorie", "Moyenne", "Dernier mois", "Mois", "Tendance", "Budget", "Statut"), nil
	case SuggestionReport:
		rows := make([][]string, 0, len(r.Suggestions))
		for _, s := range r.Suggestions {
			rows = append(rows, []string{
				s.Category, money(s.SuggestedLimit), money(s.AverageSpend),
				strconv.Itoa(s.MonthsOfData), string(s.Confidence),
			})
		}
		title := fmt.Sprintf("Budgets suggérés %s → %s", r.From, r.To)
		return title + "\n" + newTable(rows, "Catégorie", "Limite", "Moyenne", "Mois", "Confiance"), nil
	default:
		return "", fmt.Errorf("unsupported report type %T", report)
	}
}

func newTable(rows [][]string, headers ...string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
