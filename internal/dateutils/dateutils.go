// Package dateutils provides the date normalization shared by every statement handler.
package dateutils

import (
	"strings"
	"time"
)

// Date layouts seen in bank exports
const (
	DateLayoutISO    = "2006-01-02"
	DateLayoutFR     = "02/01/2006"
	DateLayoutDashed = "02-01-2006"
	DateLayoutDotted = "02.01.2006"
	MonthLayout      = "2006-01"
)

// excelEpoch is day zero of the spreadsheet serial date system (1900 date system,
// shifted to absorb the fictitious 1900-02-29).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDateFR converts DD/MM/YYYY to YYYY-MM-DD.
// Input that does not have the DD/MM/YYYY shape is returned unchanged.
func ParseDateFR(raw string) string {
	return reorderDayMonthYear(raw, "/")
}

// ParseDateDashed converts DD-MM-YYYY to YYYY-MM-DD.
// Input that does not have the DD-MM-YYYY shape is returned unchanged.
func ParseDateDashed(raw string) string {
	return reorderDayMonthYear(raw, "-")
}

func reorderDayMonthYear(raw, sep string) string {
	value := strings.TrimSpace(raw)
	// A trailing time component ("15/02/2026 10:42") is ignored.
	if i := strings.IndexAny(value, " T"); i > 0 {
		value = value[:i]
	}

	parts := strings.Split(value, sep)
	if len(parts) != 3 {
		return raw
	}
	day, month, year := parts[0], parts[1], parts[2]
	if !isDigits(day, 1, 2) || !isDigits(month, 1, 2) || !isDigits(year, 4, 4) {
		return raw
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

// IsISODate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsISODate(s string) bool {
	if len(s) != len(DateLayoutISO) {
		return false
	}
	_, err := time.Parse(DateLayoutISO, s)
	return err == nil
}

// NormalizeDate accepts the day-first layouts used by European banks and ISO
// dates (with or without a time part) and returns YYYY-MM-DD, or "" when the
// value is not a recognizable date.
func NormalizeDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}

	if len(value) >= 10 && IsISODate(value[:10]) {
		return value[:10]
	}
	for _, candidate := range []string{
		ParseDateFR(value),
		ParseDateDashed(value),
		reorderDayMonthYear(value, "."),
	} {
		if IsISODate(candidate) {
			return candidate
		}
	}
	return ""
}

// ExcelSerialToISO converts a spreadsheet serial day number to YYYY-MM-DD.
func ExcelSerialToISO(serial float64) string {
	days := int(serial)
	return excelEpoch.AddDate(0, 0, days).Format(DateLayoutISO)
}

// MonthOf returns the YYYY-MM month key of an ISO date, or "" if the date is malformed.
func MonthOf(isoDate string) string {
	if !IsISODate(isoDate) {
		return ""
	}
	return isoDate[:7]
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// MonthsBack returns the first day of the month n months before date's month.
func MonthsBack(date time.Time, n int) time.Time {
	return StartOfMonth(date).AddDate(0, -n, 0)
}

func isDigits(s string, minLen, maxLen int) bool {
	if len(s) < minLen || len(s) > maxLen {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
