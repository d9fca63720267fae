package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const hsbcBankName = "HSBC UK"

// HSBC handles HSBC UK exports: three columns, a single signed amount written with
// a dot decimal mark and comma thousands separators.
//
//	Date,Description,Amount
//	15/01/2026,TESCO STORES,"-1,234.56"
func HSBC() Handler {
	return Handler{
		BankName:  hsbcBankName,
		CanHandle: canHandleHSBC,
		Parse:     parseHSBC,
	}
}

func canHandleHSBC(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	lines := splitLines(contentOf(content))
	return len(lines) > 0 && isHSBCHeader(lines[0])
}

func isHSBCHeader(line string) bool {
	record := splitRecord(line, ',')
	if len(record) != 3 {
		return false
	}
	return normalizeHeader(record[0]) == "date" &&
		normalizeHeader(record[1]) == "description" &&
		normalizeHeader(record[2]) == "amount"
}

func parseHSBC(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(hsbcBankName, "GBP")
	lines := splitLines(contentOf(content))
	if len(lines) == 0 || !isHSBCHeader(lines[0]) {
		return result
	}

	records, unreadable := readRecords(strings.Join(lines[1:], "\n"), ',')
	result.SkippedRows = unreadable
	for _, record := range records {
		amount, err := parseDotDecimal(cell(record, 2))
		if err != nil {
			result.SkippedRows++
			continue
		}
		tx, ok := signed(dateutils.ParseDateFR(cell(record, 0)), cell(record, 1), amount)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result
}
