package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

const n26BankName = "N26"

// N26Row covers both the legacy and the current N26 export headers.
type N26Row struct {
	Date             string `csv:"Date"`
	BookingDate      string `csv:"Booking Date"`
	Payee            string `csv:"Payee"`
	PartnerName      string `csv:"Partner Name"`
	PaymentReference string `csv:"Payment Reference"`
	PaymentRefLegacy string `csv:"Payment reference"`
	Amount           string `csv:"Amount (EUR)"`
	ForeignAmount    string `csv:"Amount (Foreign Currency)"`
}

// N26 handles N26 CSV exports. Amounts are signed and may carry a space after the
// minus sign ("- 85.30").
func N26() Handler {
	return Handler{
		BankName:  n26BankName,
		CanHandle: canHandleN26,
		Parse:     parseN26,
	}
}

func canHandleN26(filename string, content *string) bool {
	if content == nil || !isTextExport(filename) {
		return false
	}
	return containsAny(head(content), "Amount (EUR)", "Amount (Foreign Currency)")
}

func parseN26(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(n26BankName, "EUR")
	text := contentOf(content)
	if strings.TrimSpace(text) == "" {
		return result
	}
	rows, unreadable, err := unmarshalRows[N26Row](strings.Join(splitLines(text), "\n"), ',')
	if err != nil {
		result.SkippedRows = max(len(splitLines(text))-1, 0)
		return result
	}
	result.SkippedRows = unreadable

	for _, row := range rows {
		raw := row.Amount
		if strings.TrimSpace(raw) == "" {
			raw = row.ForeignAmount
		}
		amount, err := currencyutils.ParseDecimal(raw)
		if err != nil {
			result.SkippedRows++
			continue
		}
		date := firstNonEmpty(row.BookingDate, row.Date)
		description := firstNonEmpty(row.PartnerName, row.Payee, row.PaymentReference, row.PaymentRefLegacy)
		tx, ok := signed(dateutils.NormalizeDate(date), description, amount)
		if !ok {
			result.SkippedRows++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
