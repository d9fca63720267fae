package parser

import (
	"errors"
	"testing"

	"fintrack/bank-import/internal/bankparser"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bnpCSV = `Date opération;Libellé simplifié;Libellé opération;Montant
05/01/2026;VIREMENT SALAIRE;VIR SEPA SALAIRE;+2500.00
12/01/2026;CARREFOUR;CB CARREFOUR;-85.30
`

const caisseDEpargneCSV = `Date;Numéro d'opération;Libellé;Débit euros;Crédit euros;Détail
28/01/2026;A1B2C3;PRLV FREE;-19,99;;PRLV FREE
`

const hsbcCSV = `Date,Description,Amount
15/01/2026,TESCO,-23.45
bad,ROW,oops
`

func ptr(s string) *string { return &s }

func TestDispatcher_SelectsHandler(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		bank     string
		count    int
	}{
		{name: "bnp", filename: "releve.csv", content: bnpCSV, bank: "BNP Paribas", count: 2},
		{name: "caisse d'epargne wins over societe generale", filename: "export.csv", content: caisseDEpargneCSV, bank: "Caisse d'Épargne", count: 1},
		{name: "hsbc", filename: "history.csv", content: hsbcCSV, bank: "HSBC UK", count: 1},
		{
			name:     "generic fallback",
			filename: "other-bank.csv",
			content:  "Date;Description;Amount\n2026-01-01;Coffee;-3,50\n2026-01-02;Refund;12,00\n",
			bank:     bankparser.GenericBankName,
			count:    2,
		},
	}

	d := NewDispatcher(logging.NewMockLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.Dispatch(tt.filename, ptr(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.bank, result.BankName)
			assert.Len(t, result.Transactions, tt.count)
		})
	}
}

func TestDispatcher_Unrecognized(t *testing.T) {
	d := NewDispatcher(logging.NewMockLogger())

	_, err := d.Dispatch("notes.txt", ptr("hello world\nnothing to see here\n"))
	require.Error(t, err)

	var unrecognized *parsererror.UnrecognizedFormatError
	require.True(t, errors.As(err, &unrecognized))
	assert.Equal(t, "notes.txt", unrecognized.FilePath)
	assert.True(t, parsererror.IsUnrecognizedFormat(err))
}

func TestDispatcher_WithoutFallback(t *testing.T) {
	d := NewDispatcher(logging.NewMockLogger(), WithoutFallback())

	_, err := d.Dispatch("other.csv", ptr("Date;Description;Amount\n2026-01-01;Coffee;-3,50\n"))
	assert.True(t, parsererror.IsUnrecognizedFormat(err))
}

func TestDispatcher_EmptyContent(t *testing.T) {
	d := NewDispatcher(logging.NewMockLogger())

	for _, content := range []*string{nil, ptr(""), ptr("  \n ")} {
		result, err := d.Dispatch("file.csv", content)
		require.NoError(t, err)
		assert.Empty(t, result.Transactions)
	}
}

func TestDispatcher_PriorityOrder(t *testing.T) {
	always := func(name string) bankparser.Handler {
		return bankparser.Handler{
			BankName:  name,
			CanHandle: func(string, *string) bool { return true },
			Parse: func(*string, *decimal.Decimal) models.ParseResult {
				return models.EmptyResult(name, "EUR")
			},
		}
	}
	d := NewDispatcher(nil, WithHandlers(always("first"), always("second")))

	result, err := d.Dispatch("x.csv", ptr("anything"))
	require.NoError(t, err)
	assert.Equal(t, "first", result.BankName)
	assert.Equal(t, []string{"first", "second"}, d.Banks())
}

func TestDispatcher_LogsSkippedRows(t *testing.T) {
	logger := logging.NewMockLogger()
	d := NewDispatcher(logger)

	result, err := d.Dispatch("history.csv", ptr(hsbcCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, result.SkippedRows)
	assert.True(t, logger.HasEntry("WARN", "Skipped malformed rows"))
}

func TestDispatcher_DispatchAs(t *testing.T) {
	d := NewDispatcher(logging.NewMockLogger())

	result, err := d.DispatchAs("hsbc uk", "renamed.dat", ptr(hsbcCSV))
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 1)

	_, err = d.DispatchAs("Unknown Bank", "x.csv", ptr(hsbcCSV))
	assert.Error(t, err)
}
