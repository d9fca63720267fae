package bankparser

import (
	"regexp"
	"strconv"
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const creditAgricoleBankName = "Crédit Agricole"

// creditAgricoleSolde matches the balance banner above the table,
// e.g. "Solde au 31/01/2026 1 234,56 €".
var creditAgricoleSolde = regexp.MustCompile(`(?i)solde au\s*(\d{1,2}/\d{1,2}/\d{4})\s*:?\s*(-?\s*[\d\s\x{00a0}\x{202f}.,]*\d)`)

// CreditAgricole handles Crédit Agricole spreadsheet exports once decoded to
// semicolon-joined rows.
func CreditAgricole() Handler {
	return Handler{
		BankName:  creditAgricoleBankName,
		CanHandle: canHandleCreditAgricole,
		Parse:     parseCreditAgricole,
	}
}

func canHandleCreditAgricole(filename string, content *string) bool {
	if content == nil || !isSpreadsheet(filename) {
		return false
	}
	return containsAny(head(content), "Débit euros", "Crédit euros")
}

func parseCreditAgricole(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(creditAgricoleBankName, "EUR")
	t, ok := locateTable(contentOf(content), ';', func(line string) bool {
		return containsAny(line, "Débit euros", "Crédit euros")
	})
	if !ok {
		return result
	}
	result.SkippedRows = t.unreadable

	dateCol := t.header.find("Date", "Date opération", "Date d'opération")
	labelCol := t.header.find("Libellé", "Libellé opération")
	debitCol := t.header.find("Débit euros")
	creditCol := t.header.find("Crédit euros")

	for _, record := range t.rows {
		date := spreadsheetDate(cell(record, dateCol))
		tx, ok := debitCredit(date, strings.Join(strings.Fields(cell(record, labelCol)), " "),
			cell(record, debitCol), cell(record, creditCol))
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	for _, line := range t.preamble {
		m := creditAgricoleSolde.FindStringSubmatch(strings.ReplaceAll(line, ";", " "))
		if m == nil {
			continue
		}
		if balance, err := currencyutils.ParseDecimal(m[2]); err == nil {
			setBalance(&result, balance, dateutils.ParseDateFR(m[1]))
			break
		}
	}
	return result
}

// spreadsheetDate accepts day-first and ISO dates as well as raw serial day numbers
// left by spreadsheet decoders.
func spreadsheetDate(raw string) string {
	if date := dateutils.NormalizeDate(raw); date != "" {
		return date
	}
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial < 1 || serial > 2958465 {
		return ""
	}
	return dateutils.ExcelSerialToISO(serial)
}
