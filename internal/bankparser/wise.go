package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const wiseBankName = "Wise"

// WiseRow is one line of a Wise (TransferWise) statement export.
type WiseRow struct {
	ID             string `csv:"TransferWise ID"`
	Date           string `csv:"Date"`
	Amount         string `csv:"Amount"`
	Currency       string `csv:"Currency"`
	Description    string `csv:"Description"`
	Reference      string `csv:"Payment Reference"`
	RunningBalance string `csv:"Running Balance"`
	PayeeName      string `csv:"Payee Name"`
	Merchant       string `csv:"Merchant"`
}

// Wise handles Wise statement exports: DD-MM-YYYY dates, signed dot-decimal amounts,
// a per-row currency and a running balance.
func Wise() Handler {
	return Handler{
		BankName:  wiseBankName,
		CanHandle: canHandleWise,
		Parse:     parseWise,
	}
}

func canHandleWise(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	return strings.Contains(head(content), "TransferWise ID")
}

func parseWise(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(wiseBankName, "EUR")
	text := contentOf(content)
	if strings.TrimSpace(text) == "" {
		return result
	}
	rows, unreadable, err := unmarshalRows[WiseRow](strings.Join(splitLines(text), "\n"), ',')
	if err != nil {
		result.SkippedRows = max(len(splitLines(text))-1, 0)
		return result
	}
	result.SkippedRows = unreadable

	var (
		currencies currencyTally
		balances   balanceTracker
	)
	for _, row := range rows {
		amount, err := parseDotDecimal(row.Amount)
		if err != nil {
			result.SkippedRows++
			continue
		}
		date := dateutils.ParseDateDashed(row.Date)
		tx, ok := signed(date, firstNonEmpty(row.Description, row.Merchant, row.PayeeName, row.Reference), amount)
		if !ok {
			result.SkippedRows++
			continue
		}
		currencies.add(row.Currency)
		if balance, err := parseDotDecimal(row.RunningBalance); err == nil {
			balances.add(tx.Date, balance)
		}
		result.Transactions = append(result.Transactions, tx)
	}
	result.Currency = currencies.dominant(result.Currency)
	balances.apply(&result)
	return result
}
