package bankparser

import (
	"regexp"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const pdfBankName = "PDF"

// pdfLine matches an operation line of an extracted statement:
// a DD/MM/YYYY date, an optional value date, the label and a trailing signed amount.
var pdfLine = regexp.MustCompile(
	`^\s*(\d{2}/\d{2}/\d{4})\s+(?:\d{2}/\d{2}/\d{4}\s+)?(.+?)\s+([-+]?\s?\d[\d \x{00a0}\x{202f}.]*[.,]\d{2})\s*(?:€|EUR)?\s*$`)

// PDF handles text extracted from generic PDF statements.
func PDF() Handler {
	return Handler{
		BankName:  pdfBankName,
		CanHandle: canHandlePDF,
		Parse:     parsePDF,
	}
}

func canHandlePDF(filename string, content *string) bool {
	if content == nil || !hasExt(filename, ".pdf") {
		return false
	}
	for _, line := range splitLines(*content) {
		if pdfLine.MatchString(line) {
			return true
		}
	}
	return false
}

func parsePDF(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(pdfBankName, "EUR")
	for _, line := range splitLines(contentOf(content)) {
		m := pdfLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount, err := currencyutils.ParseDecimal(m[3])
		if err != nil {
			result.SkippedRows++
			continue
		}
		tx, ok := signed(dateutils.ParseDateFR(m[1]), m[2], amount)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result
}
