// Package export writes stored transactions as a spreadsheet-friendly CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"

	"github.com/gocarina/gocsv"
)

const utf8BOM = "\ufeff"

// Row is one exported line. Column order is fixed by the field order.
type Row struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Category    string `csv:"Catégorie"`
	Subcategory string `csv:"Sous-catégorie"`
	Type        string `csv:"Type"`
	Amount      string `csv:"Montant"`
	Currency    string `csv:"Devise"`
	Account     string `csv:"Compte"`
}

// Header is the exported column list.
var Header = []string{"Date", "Description", "Catégorie", "Sous-catégorie", "Type", "Montant", "Devise", "Compte"}

// ToRows converts stored transactions to export rows.
func ToRows(txs []models.StoredTransaction) []*Row {
	rows := make([]*Row, 0, len(txs))
	for _, tx := range txs {
		label := models.LabelExpense
		if tx.IsIncome() {
			label = models.LabelIncome
		}
		account := tx.AccountName
		if account == "" {
			account = tx.AccountID
		}
		rows = append(rows, &Row{
			Date:        tx.Date,
			Description: tx.Description,
			Category:    tx.Category,
			Subcategory: tx.Subcategory,
			Type:        label,
			Amount:      currencyutils.FormatAmount(tx.Amount.Abs()),
			Currency:    tx.Currency,
			Account:     account,
		})
	}
	return rows
}

// Write writes txs to w: UTF-8 BOM, header, CRLF line endings, RFC 4180 quoting.
func Write(w io.Writer, txs []models.StoredTransaction) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("error writing BOM: %w", err)
	}
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	rows := ToRows(txs)
	if len(rows) == 0 {
		if err := writer.Write(Header); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
		writer.Flush()
		return writer.Error()
	}
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes txs to path, creating parent directories.
func WriteFile(path string, txs []models.StoredTransaction, logger logging.Logger) (err error) {
	logger = logging.OrDefault(logger)
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing CSV file: %w", cerr)
		}
	}()

	if err := Write(file, txs); err != nil {
		return err
	}
	logger.Info("Exported transactions",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(txs)})
	return nil
}
