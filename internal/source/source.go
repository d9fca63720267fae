// Package source turns uploaded statement bytes into the text the format handlers read.
package source

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/parsererror"

	"golang.org/x/text/encoding/charmap"
)

var (
	utf8BOM          = []byte{0xEF, 0xBB, 0xBF}
	errBinaryContent = errors.New("binary content")
)

// Decoder converts raw file bytes to handler input according to the file extension.
type Decoder struct {
	pdf         PDFExtractor
	spreadsheet SpreadsheetDecoder
	logger      logging.Logger
}

// NewDecoder creates a Decoder. nil collaborators default to the ledongthuc/pdf and
// tealeg/xlsx implementations.
func NewDecoder(pdf PDFExtractor, spreadsheet SpreadsheetDecoder, logger logging.Logger) *Decoder {
	if pdf == nil {
		pdf = NewPDFTextExtractor()
	}
	if spreadsheet == nil {
		spreadsheet = NewXLSXDecoder()
	}
	return &Decoder{pdf: pdf, spreadsheet: spreadsheet, logger: logging.OrDefault(logger)}
}

// Decode returns the text form of data. Spreadsheets become semicolon-joined rows,
// PDFs their extracted text and everything else is decoded as UTF-8 or Windows-1252.
func (d *Decoder) Decode(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := d.pdf.ExtractText(data)
		if err != nil {
			return "", &parsererror.DataExtractionError{FilePath: filename, Format: "pdf", Err: err}
		}
		return text, nil
	case ".xlsx", ".xls", ".ods":
		rows, err := d.spreadsheet.DecodeRows(data)
		if err == nil {
			return JoinRows(rows, ';'), nil
		}
		// Several banks serve tab-separated text under a spreadsheet extension.
		if isText(data) {
			d.logger.Debug("Spreadsheet is plain text, decoding as tab-separated",
				logging.Field{Key: logging.FieldFile, Value: filename})
			return strings.ReplaceAll(DecodeText(data), "\t", ";"), nil
		}
		return "", &parsererror.DataExtractionError{FilePath: filename, Format: "spreadsheet", Err: err}
	default:
		if !isText(data) {
			return "", &parsererror.DataExtractionError{FilePath: filename, Format: "text", Err: errBinaryContent}
		}
		return DecodeText(data), nil
	}
}

// DecodeText strips a UTF-8 byte order mark and decodes Windows-1252 input that is
// not valid UTF-8.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD")))
	}
	return string(decoded)
}

// isText reports whether data has no NUL bytes in its first kilobyte.
func isText(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.IndexByte(head, 0) < 0
}

// JoinRows renders decoded rows as delimited lines. Cells containing the delimiter,
// a quote or a line break are quoted.
func JoinRows(rows [][]string, delim rune) string {
	var b strings.Builder
	sep := string(delim)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString(sep)
			}
			cell = strings.TrimSpace(cell)
			if strings.ContainsAny(cell, sep+"\"\n\r") {
				cell = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}
