package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const societeGeneraleBankName = "Société Générale"

// SocieteGenerale handles Société Générale CSV exports, which carry ISO dates and
// separate debit and credit columns.
//
//	Date;Libellé;Débit euros;Crédit euros
func SocieteGenerale() Handler {
	return Handler{
		BankName:  societeGeneraleBankName,
		CanHandle: canHandleSocieteGenerale,
		Parse:     parseSocieteGenerale,
	}
}

func canHandleSocieteGenerale(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	h := head(content)
	return containsAll(h, "Débit euros", "Crédit euros") && !strings.Contains(h, "Numéro")
}

func parseSocieteGenerale(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(societeGeneraleBankName, "EUR")
	t, ok := locateTable(contentOf(content), ';', func(line string) bool {
		return strings.Contains(line, "Débit euros") || strings.Contains(line, "Crédit euros")
	})
	if !ok {
		return result
	}
	result.SkippedRows = t.unreadable

	dateCol := t.header.find("Date", "Date de l'opération", "Date opération")
	labelCol := t.header.find("Libellé", "Détail de l'écriture", "Libellé opération")
	debitCol := t.header.find("Débit euros")
	creditCol := t.header.find("Crédit euros")

	for _, record := range t.rows {
		date := dateutils.NormalizeDate(cell(record, dateCol))
		tx, ok := debitCredit(date, cell(record, labelCol), cell(record, debitCol), cell(record, creditCol))
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result
}
