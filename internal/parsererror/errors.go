// Package parsererror defines the typed errors raised while decoding and importing statements.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrEmptyContent is returned by decoders when a file holds no bytes at all.
var ErrEmptyContent = errors.New("empty content")

// ParseError represents a single value that could not be parsed
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnrecognizedFormatError is returned when no handler accepts a file.
// It is user-facing: only the offending file is rejected.
type UnrecognizedFormatError struct {
	FilePath string
	Snippet  string
}

func (e *UnrecognizedFormatError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("format not recognized for '%s' (starts with '%s')", e.FilePath, e.Snippet)
	}
	return fmt.Sprintf("format not recognized for '%s'", e.FilePath)
}

// IsUnrecognizedFormat reports whether err wraps an UnrecognizedFormatError.
func IsUnrecognizedFormat(err error) bool {
	var target *UnrecognizedFormatError
	return errors.As(err, &target)
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// DataExtractionError represents a binary source (PDF, spreadsheet) whose text could not be extracted.
type DataExtractionError struct {
	FilePath string
	Format   string
	Err      error
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("could not extract %s data from '%s': %v", e.Format, e.FilePath, e.Err)
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}

// Snippet returns at most n bytes of s, cut on a rune boundary, for error messages.
func Snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && (s[cut]&0xC0) == 0x80 {
		cut--
	}
	return s[:cut]
}
