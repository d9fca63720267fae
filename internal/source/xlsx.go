package source

import (
	"errors"
	"fmt"

	"github.com/tealeg/xlsx"
)

// SpreadsheetDecoder decodes the first sheet of a workbook to rows of cell values.
type SpreadsheetDecoder interface {
	DecodeRows(data []byte) ([][]string, error)
}

// XLSXDecoder reads Office Open XML workbooks with github.com/tealeg/xlsx.
// Cell values are raw: dates stay spreadsheet serial numbers.
type XLSXDecoder struct{}

// NewXLSXDecoder creates an XLSXDecoder.
func NewXLSXDecoder() *XLSXDecoder {
	return &XLSXDecoder{}
}

// DecodeRows returns the rows of the first sheet. Empty rows are dropped.
func (d *XLSXDecoder) DecodeRows(data []byte) ([][]string, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := file.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		values := make([]string, len(row.Cells))
		empty := true
		for i, cell := range row.Cells {
			if cell == nil {
				continue
			}
			values[i] = cell.Value
			if cell.Value != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, values)
		}
	}
	return rows, nil
}
