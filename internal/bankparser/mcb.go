package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const mcbBankName = "MCB"

// MCB handles Mauritius Commercial Bank (Madagascar) statements. Values are
// comma-delimited and quoted when they carry a decimal comma.
//
//	Devise du compte MGA
//	Date de la transaction,Date de valeur,Description,Débit,Crédit,Solde
//	05/01/2026,05/01/2026,RETRAIT GAB,"150000,00",,"1250000,00"
func MCB() Handler {
	return Handler{
		BankName:  mcbBankName,
		CanHandle: canHandleMCB,
		Parse:     parseMCB,
	}
}

func canHandleMCB(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	return containsAny(head(content), "Date de la transaction", "Devise du compte MGA")
}

func isMCBHeader(line string) bool {
	if strings.Contains(line, "Date de la transaction") {
		return true
	}
	lower := strings.ToLower(line)
	return containsAny(lower, "débit", "debit") && containsAny(lower, "crédit", "credit")
}

func parseMCB(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(mcbBankName, "MGA")
	t, ok := locateTable(contentOf(content), ',', isMCBHeader)
	if !ok {
		return result
	}
	result.SkippedRows = t.unreadable

	dateCol := t.header.find("Date de la transaction", "Date")
	labelCol := t.header.find("Description", "Libellé", "Détails")
	debitCol := t.header.findPrefix("débit", "debit")
	creditCol := t.header.findPrefix("crédit", "credit")
	balanceCol := t.header.find("Solde", "Balance")

	var balances balanceTracker
	for _, record := range t.rows {
		date := dateutils.NormalizeDate(cell(record, dateCol))
		tx, ok := debitCredit(date, cell(record, labelCol), cell(record, debitCol), cell(record, creditCol))
		if !ok {
			result.SkippedRows++
			continue
		}
		if balance, present, err := currencyutils.ParseOptionalDecimal(cell(record, balanceCol)); err == nil && present {
			balances.add(tx.Date, balance)
		}
		result.Transactions = append(result.Transactions, tx)
	}
	balances.apply(&result)
	return result
}
