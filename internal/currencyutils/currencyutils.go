// Package currencyutils provides locale-aware amount parsing and formatting.
package currencyutils

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"fintrack/bank-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

var (
	// plainNumber is what StandardizeAmount must produce for a parse to succeed.
	plainNumber = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

	errNotNumeric = errors.New("not a numeric amount")
)

// StandardizeAmount rewrites a bank-formatted amount into plain "-1234.56" form.
// It drops whitespace of any kind (including no-break and narrow no-break spaces),
// apostrophes and currency symbols, keeps a leading minus even when it is separated
// from the digits ("- 85.30"), and resolves the decimal separator: when both ',' and
// '.' occur the last one is the decimal mark, otherwise a lone ',' is the decimal mark.
func StandardizeAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r), r == '\'', r == '+':
			continue
		case strings.ContainsRune("€$£¥", r):
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// ParseAmount converts a bank-formatted amount to a float.
// Non-numeric input yields NaN; callers must check math.IsNaN before using the value.
func ParseAmount(raw string) float64 {
	s := StandardizeAmount(raw)
	if !plainNumber.MatchString(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseDecimal is the error-returning counterpart of ParseAmount used wherever
// exact arithmetic is needed.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := StandardizeAmount(raw)
	if !plainNumber.MatchString(s) {
		return decimal.Zero, &parsererror.ParseError{Parser: "amount", Field: "amount", Value: raw, Err: errNotNumeric}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &parsererror.ParseError{Parser: "amount", Field: "amount", Value: raw, Err: err}
	}
	return d, nil
}

// ParseOptionalDecimal parses a debit or credit cell, where an empty cell means "no amount".
func ParseOptionalDecimal(raw string) (decimal.Decimal, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, false, nil
	}
	d, err := ParseDecimal(raw)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

// FormatAmount renders an amount with exactly two decimals and no thousands separator.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Round1 rounds v to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
