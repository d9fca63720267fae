// Package bankparser holds one detection/parse capability pair per supported bank export.
//
// Handlers are plain records in a priority-ordered table (see Registry). They never perform
// I/O, never panic on malformed input, and report rows they could not read through
// ParseResult.SkippedRows instead of failing the whole file.
package bankparser

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"fintrack/bank-import/internal/currencyutils"
	"fintrack/bank-import/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Handler is the capability record of one export format.
type Handler struct {
	// BankName is the human-readable institution label reported in ParseResult.
	BankName string
	// CanHandle is a cheap structural test. It returns false for nil content.
	CanHandle func(filename string, content *string) bool
	// Parse turns content into normalized transactions. nil or empty content yields
	// an empty transaction list.
	Parse func(content *string, previousBalance *decimal.Decimal) models.ParseResult
}

const (
	// detectionLines is how many leading lines detection predicates look at.
	detectionLines = 12
	utf8BOM        = "\ufeff"
)

var spreadsheetExts = []string{".xls", ".xlsx", ".ods"}

// contentOf dereferences content, treating nil as empty and dropping a UTF-8 BOM.
func contentOf(content *string) string {
	if content == nil {
		return ""
	}
	return strings.TrimPrefix(*content, utf8BOM)
}

// splitLines splits on any line ending and drops blank lines.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(strings.Trim(line, ";,\t")) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// head returns the first detection lines of content joined by newlines.
func head(content *string) string {
	lines := splitLines(contentOf(content))
	if len(lines) > detectionLines {
		lines = lines[:detectionLines]
	}
	return strings.Join(lines, "\n")
}

func extOf(filename string) string {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
}

func hasExt(filename string, exts ...string) bool {
	ext := extOf(filename)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// isTextExport accepts the extensions used for delimited text exports. A missing
// extension is accepted so content can be sniffed from pasted text.
func isTextExport(filename string) bool {
	ext := extOf(filename)
	return ext == "" || ext == ".csv" || ext == ".txt" || ext == ".tsv"
}

func isSpreadsheet(filename string) bool {
	return hasExt(filename, spreadsheetExts...)
}

// splitRecord splits a single line on delim honoring double quotes.
// A line the CSV reader rejects falls back to a plain split.
func splitRecord(line string, delim rune) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return record
}

// newCSVReader returns a lenient reader suitable for bank exports.
func newCSVReader(content string, delim rune) *csv.Reader {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r
}

// readRecords reads every record of content. Records the reader cannot decode are
// counted and skipped.
func readRecords(content string, delim rune) (records [][]string, unreadable int) {
	r := newCSVReader(content, delim)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, unreadable
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				unreadable++
				continue
			}
			return records, unreadable
		}
		if isBlankRecord(record) {
			continue
		}
		records = append(records, record)
	}
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// unmarshalRows decodes a delimited export into csv-tagged row structs, matching
// columns by header title. Records the CSV reader rejects are skipped and counted;
// short records are padded so a single ragged row never fails the file.
func unmarshalRows[T any](content string, delim rune) ([]*T, int, error) {
	records, unreadable := readRecords(content, delim)
	if len(records) == 0 {
		return nil, unreadable, nil
	}
	width := len(records[0])
	for i, record := range records {
		if len(record) < width {
			records[i] = append(record, make([]string, width-len(record))...)
		}
	}
	var rows []*T
	if err := gocsv.UnmarshalCSV(&recordSource{records: records}, &rows); err != nil {
		return nil, unreadable, err
	}
	return rows, unreadable, nil
}

// recordSource replays records that were already read to gocsv.
type recordSource struct {
	records [][]string
}

func (s *recordSource) Read() ([]string, error) {
	if len(s.records) == 0 {
		return nil, io.EOF
	}
	record := s.records[0]
	s.records = s.records[1:]
	return record, nil
}

func (s *recordSource) ReadAll() ([][]string, error) {
	records := s.records
	s.records = nil
	return records, nil
}

// table is a delimited export split around its header line.
type table struct {
	preamble   []string
	header     columnIndex
	rows       [][]string
	unreadable int
}

// locateTable finds the first line accepted by isHeader and reads every record
// after it. It reports false when no header line exists.
func locateTable(content string, delim rune, isHeader func(line string) bool) (table, bool) {
	lines := splitLines(content)
	for i, line := range lines {
		if !isHeader(line) {
			continue
		}
		t := table{
			preamble: slices.Clip(lines[:i]),
			header:   indexHeader(splitRecord(line, delim)),
		}
		t.rows, t.unreadable = readRecords(strings.Join(lines[i+1:], "\n"), delim)
		return t, true
	}
	return table{}, false
}

// normalizeHeader lower-cases and trims a column title for lookups.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\"")))
}

// columnIndex maps normalized header titles to their position.
type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := normalizeHeader(strings.TrimPrefix(h, utf8BOM))
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// find returns the position of the first title equal to one of names.
func (c columnIndex) find(names ...string) int {
	for _, n := range names {
		if i, ok := c[normalizeHeader(n)]; ok {
			return i
		}
	}
	return -1
}

// findPrefix returns the position of the first title starting with one of prefixes.
// Ties are broken by column position.
func (c columnIndex) findPrefix(prefixes ...string) int {
	best := -1
	for name, i := range c {
		for _, p := range prefixes {
			if strings.HasPrefix(name, normalizeHeader(p)) && (best == -1 || i < best) {
				best = i
			}
		}
	}
	return best
}

// cell returns the trimmed field at i, or "" when out of range.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseDotDecimal parses amounts written with a dot decimal mark and optional
// comma thousands separators ("-1,234.56").
func parseDotDecimal(raw string) (decimal.Decimal, error) {
	return currencyutils.ParseDecimal(strings.ReplaceAll(raw, ",", ""))
}

// debitCredit builds a transaction from separate debit and credit cells.
// Exactly one of the two must hold a non-zero amount.
func debitCredit(date, description, debitRaw, creditRaw string) (models.NormalizedTransaction, bool) {
	debit, hasDebit, err := currencyutils.ParseOptionalDecimal(debitRaw)
	if err != nil {
		return models.NormalizedTransaction{}, false
	}
	credit, hasCredit, err := currencyutils.ParseOptionalDecimal(creditRaw)
	if err != nil {
		return models.NormalizedTransaction{}, false
	}
	if hasDebit && debit.IsZero() {
		hasDebit = false
	}
	if hasCredit && credit.IsZero() {
		hasCredit = false
	}

	builder := models.NewTransactionBuilder().WithDate(date).WithDescription(description)
	switch {
	case hasDebit && !hasCredit:
		builder = builder.AsDebit(debit)
	case hasCredit && !hasDebit:
		builder = builder.AsCredit(credit)
	default:
		return models.NormalizedTransaction{}, false
	}
	tx, err := builder.Build()
	if err != nil {
		return models.NormalizedTransaction{}, false
	}
	return tx, true
}

// signed builds a transaction from a single signed amount.
func signed(date, description string, amount decimal.Decimal) (models.NormalizedTransaction, bool) {
	tx, err := models.NewTransactionBuilder().
		WithDate(date).
		WithDescription(description).
		WithSignedAmount(amount).
		Build()
	if err != nil {
		return models.NormalizedTransaction{}, false
	}
	return tx, true
}

// currencyTally counts per-row currency codes and reports the dominant one.
// Ties go to the code seen first.
type currencyTally struct {
	order  []string
	counts map[string]int
}

func (c *currencyTally) add(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, seen := c.counts[code]; !seen {
		c.order = append(c.order, code)
	}
	c.counts[code]++
}

func (c *currencyTally) dominant(fallback string) string {
	best, bestCount := fallback, 0
	for _, code := range c.order {
		if c.counts[code] > bestCount {
			best, bestCount = code, c.counts[code]
		}
	}
	return best
}

// balanceTracker remembers the running balance attached to the most recent row.
// Exports list rows either oldest-first or newest-first; among rows sharing the
// latest date, the one furthest from the file's oldest end wins.
type balanceTracker struct {
	points []balancePoint
}

type balancePoint struct {
	date    string
	balance decimal.Decimal
}

func (b *balanceTracker) add(date string, balance decimal.Decimal) {
	b.points = append(b.points, balancePoint{date: date, balance: balance})
}

func (b *balanceTracker) apply(result *models.ParseResult) {
	if len(b.points) == 0 {
		return
	}
	newestFirst := b.points[0].date > b.points[len(b.points)-1].date

	best := -1
	for i, p := range b.points {
		switch {
		case best == -1 || p.date > b.points[best].date:
			best = i
		case p.date == b.points[best].date && !newestFirst:
			best = i
		}
	}
	setBalance(result, b.points[best].balance, b.points[best].date)
}

func setBalance(result *models.ParseResult, balance decimal.Decimal, date string) {
	result.DetectedBalance = &balance
	if date != "" {
		d := date
		result.DetectedBalanceDate = &d
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
