package dateutils

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateFR(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"15/02/2026", "2026-02-15"},
		{"01/12/2025", "2025-12-01"},
		{"5/2/2026", "2026-02-05"},
		{" 15/02/2026 ", "2026-02-15"},
		{"15/02/2026 10:42", "2026-02-15"},
		// not the DD/MM/YYYY shape: returned unchanged
		{"2026-02-15", "2026-02-15"},
		{"15/02", "15/02"},
		{"15/02/26", "15/02/26"},
		{"aa/bb/cccc", "aa/bb/cccc"},
		{"", ""},
		{"1/2/3/4", "1/2/3/4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDateFR(tt.input))
		})
	}
}

func TestParseDateFR_AlwaysISOForValidInput(t *testing.T) {
	iso := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 800; d += 7 {
		day := start.AddDate(0, 0, d)
		input := day.Format(DateLayoutFR)
		out := ParseDateFR(input)
		assert.Regexp(t, iso, out, "input %s", input)
		assert.Equal(t, day.Format(DateLayoutISO), out)
	}
}

func TestParseDateDashed(t *testing.T) {
	assert.Equal(t, "2026-01-15", ParseDateDashed("15-01-2026"))
	assert.Equal(t, "2026-01-15", ParseDateDashed("15-01-2026 08:30:00"))
	assert.Equal(t, "2026-01-15", ParseDateDashed("2026-01-15"), "ISO is not DD-MM-YYYY and is returned unchanged")
	assert.Equal(t, "15/01/2026", ParseDateDashed("15/01/2026"))
}

func TestIsISODate(t *testing.T) {
	assert.True(t, IsISODate("2026-02-28"))
	assert.False(t, IsISODate("2026-02-30"))
	assert.False(t, IsISODate("2026-2-3"))
	assert.False(t, IsISODate("15/02/2026"))
	assert.False(t, IsISODate(""))
}

func TestNormalizeDate(t *testing.T) {
	tests := map[string]string{
		"2026-03-01":           "2026-03-01",
		"2026-03-01 12:00:00":  "2026-03-01",
		"2026-03-01T12:00:00Z": "2026-03-01",
		"01/03/2026":           "2026-03-01",
		"01-03-2026":           "2026-03-01",
		"01.03.2026":           "2026-03-01",
		"31/02/2026":           "",
		"yesterday":            "",
		"":                     "",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, NormalizeDate(input), fmt.Sprintf("input %q", input))
	}
}

func TestExcelSerialToISO(t *testing.T) {
	assert.Equal(t, "2026-01-01", ExcelSerialToISO(46023))
	assert.Equal(t, "1900-03-01", ExcelSerialToISO(61))
	assert.Equal(t, "2026-01-01", ExcelSerialToISO(46023.75), "fractional part is the time of day")
}

func TestMonthHelpers(t *testing.T) {
	assert.Equal(t, "2026-02", MonthOf("2026-02-15"))
	assert.Equal(t, "", MonthOf("15/02/2026"))

	date := time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(date))
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), EndOfMonth(date))
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), MonthsBack(date, 3))
}
