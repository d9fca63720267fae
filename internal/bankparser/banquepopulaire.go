package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const banquePopulaireBankName = "Banque Populaire"

// BanquePopulaire handles Banque Populaire CSV exports.
//
//	Date de comptabilisation;Libellé simplifié;Libellé opération;Référence;Informations complémentaires;Type opération;Catégorie;Sous-catégorie;Débit;Crédit;Date opération;Date de valeur;Pointage opération
//
// Some exports add a trailing Solde column; the balance of the most recent row is reported.
func BanquePopulaire() Handler {
	return Handler{
		BankName:  banquePopulaireBankName,
		CanHandle: canHandleBanquePopulaire,
		Parse:     parseBanquePopulaire,
	}
}

func canHandleBanquePopulaire(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	h := head(content)
	return strings.Contains(h, "Date de comptabilisation") && containsAll(h, "Débit", "Crédit")
}

func parseBanquePopulaire(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(banquePopulaireBankName, "EUR")
	t, ok := locateTable(contentOf(content), ';', func(line string) bool {
		return strings.Contains(line, "Date de comptabilisation")
	})
	if !ok {
		return result
	}
	result.SkippedRows = t.unreadable

	dateCol := t.header.find("Date de comptabilisation")
	labelCol := t.header.find("Libellé opération", "Libellé simplifié", "Libellé")
	debitCol := t.header.find("Débit")
	creditCol := t.header.find("Crédit")
	balanceCol := t.header.find("Solde")

	var balances balanceTracker
	for _, record := range t.rows {
		tx, ok := debitCredit(dateutils.ParseDateFR(cell(record, dateCol)), cell(record, labelCol),
			cell(record, debitCol), cell(record, creditCol))
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
