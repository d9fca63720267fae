package bankparser

import (
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/dateutils"
	"fintrack/bank-import/internal/models"

	"github.com/shopspring/decimal"
)

// GenericBankName labels results produced by the best-effort fallback.
const GenericBankName = "Generic CSV"

var (
	genericDateKeys   = []string{"date", "datum", "fecha", "data", "booking"}
	genericLabelKeys  = []string{"libellé", "libelle", "description", "label", "détail", "detail", "memo", "payee", "name", "beschreibung", "wording"}
	genericAmountKeys = []string{"montant", "amount", "betrag", "importe"}
	genericDebitKeys  = []string{"débit", "debit", "withdrawal", "money out", "paid out", "sortie"}
	genericCreditKeys = []string{"crédit", "credit", "deposit", "money in", "paid in", "entrée"}
	genericCcyKeys    = []string{"currency", "devise", "ccy"}
	genericDelimiters = []rune{';', ',', '\t'}
)

// genericLayout is the column mapping sniffed from a header line.
type genericLayout struct {
	delim      rune
	headerLine int
	date       int
	label      int
	amount     int
	debit      int
	credit     int
	ccy        int
}

// Generic is the fallback used when no bank handler recognizes a file. It sniffs the
// delimiter and locates date, label and amount (or debit/credit) columns by keyword.
// It is not part of Registry.
func Generic() Handler {
	return Handler{
		BankName: GenericBankName,
		CanHandle: func(filename string, content *string) bool {
			if content == nil || !(isTextExport(filename) || isSpreadsheet(filename)) {
				return false
			}
			_, ok := sniffLayout(splitLines(contentOf(content)))
			return ok
		},
		Parse: parseGeneric,
	}
}

func parseGeneric(content *string, _ *decimal.Decimal) models.ParseResult {
	result := models.EmptyResult(GenericBankName, "EUR")
	lines := splitLines(contentOf(content))
	layout, ok := sniffLayout(lines)
	if !ok {
		return result
	}

	records, unreadable := readRecords(strings.Join(lines[layout.headerLine+1:], "\n"), layout.delim)
	result.SkippedRows = unreadable

	var currencies currencyTally
	for _, record := range records {
		date := dateutils.NormalizeDate(cell(record, layout.date))
		label := cell(record, layout.label)

		var (
			tx models.NormalizedTransaction
			ok bool
		)
		if layout.amount >= 0 {
			amount, err := currencyutils.ParseDecimal(cell(record, layout.amount))
			if err == nil {
				tx, ok = signed(date, label, amount)
			}
		} else {
			tx, ok = debitCredit(date, label, cell(record, layout.debit), cell(record, layout.credit))
		}
		if !ok {
			result.SkippedRows++
			continue
		}
		currencies.add(cell(record, layout.ccy))
		result.Transactions = append(result.Transactions, tx)
	}
	result.Currency = currencies.dominant(result.Currency)
	return result
}

// sniffLayout looks for a header line among the first lines and maps its columns.
func sniffLayout(lines []string) (genericLayout, bool) {
	for i, line := range lines {
		if i >= detectionLines {
			break
		}
		for _, delim := range genericDelimiters {
			if !strings.ContainsRune(line, delim) {
				continue
			}
			header := splitRecord(line, delim)
			if len(header) < 3 {
				continue
			}
			layout := genericLayout{
				delim:      delim,
				headerLine: i,
				date:       columnContaining(header, genericDateKeys),
				label:      columnContaining(header, genericLabelKeys),
				amount:     columnContaining(header, genericAmountKeys),
				debit:      columnContaining(header, genericDebitKeys),
				credit:     columnContaining(header, genericCreditKeys),
				ccy:        columnContaining(header, genericCcyKeys),
			}
			hasAmount := layout.amount >= 0 || (layout.debit >= 0 && layout.credit >= 0)
			if layout.date >= 0 && layout.label >= 0 && hasAmount {
				return layout, true
			}
		}
	}
	return genericLayout{}, false
}

// columnContaining returns the first column whose title contains one of keys.
func columnContaining(header []string, keys []string) int {
	for i, h := range header {
		name := normalizeHeader(h)
		for _, k := range keys {
			if strings.Contains(name, k) {
				return i
			}
		}
	}
	return -1
}
