package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const monzoBankName = "Monzo"

// MonzoRow is one line of a Monzo export.
type MonzoRow struct {
	TransactionID string `csv:"Transaction ID"`
	Date          string `csv:"Date"`
	Time          string `csv:"Time"`
	Type          string `csv:"Type"`
	Name          string `csv:"Name"`
	Category      string `csv:"Category"`
	Amount        string `csv:"Amount"`
	Currency      string `csv:"Currency"`
	Description   string `csv:"Description"`
}

// Monzo handles Monzo CSV exports. The result currency is the dominant value of
// the per-row Currency column.
//
//	Transaction ID,Date,Time,Type,Name,Emoji,Category,Amount,Currency,...
func Monzo() Handler {
	return Handler{
		BankName:  monzoBankName,
		CanHandle: canHandleMonzo,
		Parse:     parseMonzo,
	}
}

func canHandleMonzo(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	lines := splitLines(contentOf(content))
	if len(lines) == 0 {
		return false
	}
	record := splitRecord(lines[0], ',')
	if len(record) < 4 {
		return false
	}
	want := []string{"transaction id", "date", "time", "type"}
	for i, w := range want {
		if normalizeHeader(record[i]) != w {
			return false
		}
	}
	return true
}

func parseMonzo(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(monzoBankName, "GBP")
	text := contentOf(content)
	if strings.TrimSpace(text) == "" {
		return result
	}
	rows, unreadable, err := unmarshalRows[MonzoRow](strings.Join(splitLines(text), "\n"), ',')
	if err != nil {
		result.SkippedRows = max(len(splitLines(text))-1, 0)
		return result
	}
	result.SkippedRows = unreadable

	var currencies currencyTally
	for _, row := range rows {
		amount, err := currencyutils.ParseDecimal(row.Amount)
		if err != nil {
			result.SkippedRows++
			continue
		}
		tx, ok := signed(dateutils.NormalizeDate(row.Date), firstNonEmpty(row.Name, row.Description), amount)
		if !ok {
			result.SkippedRows++
			continue
		}
		currencies.add(row.Currency)
		result.Transactions = append(result.Transactions, tx)
	}
	result.Currency = currencies.dominant(result.Currency)
	return result
}
