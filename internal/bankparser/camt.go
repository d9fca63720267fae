package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"
)

const camtBankName = "CAMT.053"

// Paths are relative to the node they are evaluated on.
var (
	camtEntryPath     = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Ntry")
	camtBalancePath   = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Bal")
	camtAccountCcy    = xmlpath.MustCompile("//BkToCstmrStmt/Stmt/Acct/Ccy")
	camtAmount        = xmlpath.MustCompile("Amt")
	camtCurrency      = xmlpath.MustCompile("Amt/@Ccy")
	camtIndicator     = xmlpath.MustCompile("CdtDbtInd")
	camtStatus        = xmlpath.MustCompile("Sts")
	camtStatusCode    = xmlpath.MustCompile("Sts/Cd")
	camtBookingDate   = xmlpath.MustCompile("BookgDt/Dt")
	camtBookingDtTm   = xmlpath.MustCompile("BookgDt/DtTm")
	camtValueDate     = xmlpath.MustCompile("ValDt/Dt")
	camtRemittance    = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	camtAddtlInfo     = xmlpath.MustCompile("AddtlNtryInf")
	camtCreditorName  = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Cdtr/Nm")
	camtDebtorName    = xmlpath.MustCompile("NtryDtls/TxDtls/RltdPties/Dbtr/Nm")
	camtBalanceCode   = xmlpath.MustCompile("Tp/CdOrPrtry/Cd")
	camtBalanceDate   = xmlpath.MustCompile("Dt/Dt")
	camtBalanceDtTm   = xmlpath.MustCompile("Dt/DtTm")
	camtBalanceAmount = xmlpath.MustCompile("Amt")
)

// CAMT handles ISO 20022 camt.053 bank-to-customer statements.
func CAMT() Handler {
	return Handler{
		BankName:  camtBankName,
		CanHandle: canHandleCAMT,
		Parse:     parseCAMT,
	}
}

func canHandleCAMT(filename string, content *string) bool {
	if content == nil {
		return false
	}
	ext := extOf(filename)
	if ext != ".xml" && ext != "" {
		return false
	}
	return strings.Contains(*content, "BkToCstmrStmt")
}

func parseCAMT(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(camtBankName, "EUR")
	text := contentOf(content)
	if strings.TrimSpace(text) == "" {
		return result
	}
	root, err := xmlpath.Parse(strings.NewReader(text))
	if err != nil {
		return result
	}
	if ccy, ok := camtAccountCcy.String(root); ok && strings.TrimSpace(ccy) != "" {
		result.Currency = strings.TrimSpace(ccy)
	}

	var currencies currencyTally
	iter := camtEntryPath.Iter(root)
	for iter.Next() {
		entry := iter.Node()
		if camtEntryPending(entry) {
			continue
		}
		tx, ok := camtTransaction(entry)
		if !ok {
			result.SkippedRows++
			continue
		}
		currencies.add(nodeString(camtCurrency, entry))
		result.Transactions = append(result.Transactions, tx)
	}
	result.Currency = currencies.dominant(result.Currency)

	balances := camtBalancePath.Iter(root)
	for balances.Next() {
		bal := balances.Node()
		if nodeString(camtBalanceCode, bal) != "CLBD" {
			continue
		}
		amount, err := currencyutils.ParseDecimal(nodeString(camtBalanceAmount, bal))
		if err != nil {
			continue
		}
		if nodeString(camtIndicator, bal) == "DBIT" {
			amount = amount.Neg()
		}
		date := dateutils.NormalizeDate(firstNonEmpty(nodeString(camtBalanceDate, bal), nodeString(camtBalanceDtTm, bal)))
		setBalance(&result, amount, date)
	}
	return result
}

func camtEntryPending(entry *xmlpath.Node) bool {
	status := firstNonEmpty(nodeString(camtStatusCode, entry), nodeString(camtStatus, entry))
	return strings.EqualFold(status, "PDNG")
}

func camtTransaction(entry *xmlpath.Node) (models.NormalizedTransaction, bool) {
	amount, err := currencyutils.ParseDecimal(nodeString(camtAmount, entry))
	if err != nil {
		return models.NormalizedTransaction{}, false
	}
	date := dateutils.NormalizeDate(firstNonEmpty(
		nodeString(camtBookingDate, entry),
		nodeString(camtBookingDtTm, entry),
		nodeString(camtValueDate, entry),
	))

	builder := models.NewTransactionBuilder().WithDate(date)
	var party string
	switch nodeString(camtIndicator, entry) {
	case "DBIT":
		builder = builder.AsDebit(amount)
		party = nodeString(camtCreditorName, entry)
	case "CRDT":
		builder = builder.AsCredit(amount)
		party = nodeString(camtDebtorName, entry)
	default:
		return models.NormalizedTransaction{}, false
	}
	description := firstNonEmpty(nodeString(camtRemittance, entry), party, nodeString(camtAddtlInfo, entry))
	tx, err := builder.WithDescription(strings.Join(strings.Fields(description), " ")).Build()
	if err != nil {
		return models.NormalizedTransaction{}, false
	}
	return tx, true
}

func nodeString(path *xmlpath.Path, node *xmlpath.Node) string {
	s, ok := path.String(node)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
