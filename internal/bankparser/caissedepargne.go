package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const caisseDEpargneBankName = "Caisse d'Épargne"

// CaisseDEpargne handles Caisse d'Épargne CSV exports.
//
//	Code de la banque : 12345;Code de l'agence : 00001;...
//	Solde en fin de période;;;;1 234,56
//	Date;Numéro d'opération;Libellé;Débit;Crédit;Détail
func CaisseDEpargne() Handler {
	return Handler{
		BankName:  caisseDEpargneBankName,
		CanHandle: canHandleCaisseDEpargne,
		Parse:     parseCaisseDEpargne,
	}
}

func canHandleCaisseDEpargne(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	for _, line := range strings.Split(head(content), "\n") {
		if isCaisseDEpargneHeader(line) {
			return true
		}
	}
	return false
}

func isCaisseDEpargneHeader(line string) bool {
	return strings.Contains(line, ";") && strings.Contains(line, "Numéro") && containsAll(line, "Débit", "Crédit")
}

func parseCaisseDEpargne(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(caisseDEpargneBankName, "EUR")
	t, ok := locateTable(contentOf(content), ';', isCaisseDEpargneHeader)
	if !ok {
		return result
	}
	result.SkippedRows = t.unreadable

	dateCol := t.header.find("Date", "Date opération")
	labelCol := t.header.find("Libellé", "Libellé opération")
	debitCol := t.header.find("Débit", "Débit euros")
	creditCol := t.header.find("Crédit", "Crédit euros")

	var balanceLine string
	for _, record := range t.rows {
		if strings.HasPrefix(strings.ToLower(cell(record, 0)), "solde") {
			balanceLine = strings.Join(record, ";")
			continue
		}
		tx, ok := debitCredit(dateutils.ParseDateFR(cell(record, dateCol)), cell(record, labelCol),
			cell(record, debitCol), cell(record, creditCol))
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	// The closing balance is printed either above the table or as a trailer row.
	for _, line := range append(t.preamble, balanceLine) {
		if !strings.Contains(strings.ToLower(line), "fin de période") {
			continue
		}
		if balance, _, ok := parseSoldeLine(line, ';'); ok {
			setBalance(&result, balance, result.LatestDate())
			break
		}
	}
	return result
}
