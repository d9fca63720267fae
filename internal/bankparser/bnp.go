package bankparser

import (
	"regexp"
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const bnpBankName = "BNP Paribas"

// frenchDate finds a DD/MM/YYYY date inside a free-text cell.
var frenchDate = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)

// BNP handles BNP Paribas CSV exports.
//
//	Solde au 31/01/2026;1 234,56
//	Date opération;Libellé simplifié;Libellé opération;Référence;Type opération;Catégorie;Sous-catégorie;Montant
func BNP() Handler {
	return Handler{
		BankName:  bnpBankName,
		CanHandle: canHandleBNP,
		Parse:     parseBNP,
	}
}

func canHandleBNP(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	h := head(content)
	return strings.Contains(h, "Libellé simplifié") && !strings.Contains(h, "Date de comptabilisation")
}

func parseBNP(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(bnpBankName, "EUR")
	t, ok := locateTable(contentOf(content), ';', func(line string) bool {
		return strings.Contains(line, "Libellé simplifié")
	})
	if !ok {
		return result
	}
	result.SkippedRows = t.unreadable

	dateCol := t.header.find("Date opération", "Date operation", "Date")
	if dateCol < 0 {
		dateCol = t.header.findPrefix("date")
	}
	labelCol := t.header.find("Libellé opération", "Libellé simplifié")
	amountCol := t.header.find("Montant", "Montant opération")
	if amountCol < 0 {
		amountCol = t.header.findPrefix("montant")
	}

	for _, record := range t.rows {
		amount, err := currencyutils.ParseDecimal(cell(record, amountCol))
		if err != nil {
			result.SkippedRows++
			continue
		}
		tx, ok := signed(dateutils.ParseDateFR(cell(record, dateCol)), cell(record, labelCol), amount)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	for _, line := range t.preamble {
		if balance, date, ok := parseSoldeLine(line, ';'); ok {
			if date == "" {
				date = result.LatestDate()
			}
			setBalance(&result, balance, date)
			break
		}
	}
	return result
}

// parseSoldeLine reads a "Solde au DD/MM/YYYY;amount" line. The amount is the last
// non-empty cell; the date is optional.
func parseSoldeLine(line string, delim rune) (decimal.Decimal, string, bool) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "solde") {
		return decimal.Zero, "", false
	}
	record := splitRecord(line, delim)
	for i := len(record) - 1; i >= 1; i-- {
		raw := strings.TrimSpace(record[i])
		if raw == "" {
			continue
		}
		balance, err := currencyutils.ParseDecimal(raw)
		if err != nil {
			return decimal.Zero, "", false
		}
		date := ""
		if m := frenchDate.FindString(line); m != "" {
			date = dateutils.ParseDateFR(m)
		}
		return balance, date, true
	}
	return decimal.Zero, "", false
}
