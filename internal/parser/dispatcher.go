// Package parser selects the bank format handler for an uploaded file and runs it.
package parser

import (
	"fmt"
	"strings"

	"fintrack/bank-import/internal/bankparser"
	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"
	"fintrack/bank-import/internal/parsererror"

	"github.com/shopspring/decimal"
)

const snippetLength = 120

// Dispatcher routes a file to the first handler that recognizes it.
// It holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	handlers []bankparser.Handler
	fallback *bankparser.Handler
	logger   logging.Logger
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithHandlers replaces the registered handler list. Order is priority.
func WithHandlers(handlers ...bankparser.Handler) Option {
	return func(d *Dispatcher) {
		d.handlers = append([]bankparser.Handler(nil), handlers...)
	}
}

// WithoutFallback disables the generic column-sniffing fallback, so unrecognized
// files always yield an UnrecognizedFormatError.
func WithoutFallback() Option {
	return func(d *Dispatcher) {
		d.fallback = nil
	}
}

// NewDispatcher creates a dispatcher over bankparser.Registry with the generic fallback.
func NewDispatcher(logger logging.Logger, opts ...Option) *Dispatcher {
	generic := bankparser.Generic()
	d := &Dispatcher{
		handlers: bankparser.Registry(),
		fallback: &generic,
		logger:   logging.OrDefault(logger),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Banks lists the bank names the dispatcher can recognize, in priority order.
func (d *Dispatcher) Banks() []string {
	names := make([]string, 0, len(d.handlers))
	for _, h := range d.handlers {
		names = append(names, h.BankName)
	}
	return names
}

// Detect returns the handler that would parse the file, without parsing it.
func (d *Dispatcher) Detect(filename string, content *string) (bankparser.Handler, bool) {
	for _, h := range d.handlers {
		if h.CanHandle(filename, content) {
			return h, true
		}
	}
	if d.fallback != nil && d.fallback.CanHandle(filename, content) {
		return *d.fallback, true
	}
	return bankparser.Handler{}, false
}

// Dispatch parses content with the first matching handler.
//
// nil or blank content is not an error and yields an empty result. When no handler
// matches, the returned error is a *parsererror.UnrecognizedFormatError.
func (d *Dispatcher) Dispatch(filename string, content *string) (models.ParseResult, error) {
	return d.DispatchWithBalance(filename, content, nil)
}

// DispatchWithBalance is Dispatch with the account's balance before the import.
func (d *Dispatcher) DispatchWithBalance(filename string, content *string, previousBalance *decimal.Decimal) (models.ParseResult, error) {
	if content == nil || strings.TrimSpace(*content) == "" {
		d.logger.Debug("Empty content, nothing to parse", logging.Field{Key: logging.FieldFile, Value: filename})
		return models.EmptyResult("", ""), nil
	}

	h, ok := d.Detect(filename, content)
	if !ok {
		d.logger.Warn("Unrecognized statement format", logging.Field{Key: logging.FieldFile, Value: filename})
		return models.ParseResult{}, &parsererror.UnrecognizedFormatError{
			FilePath: filename,
			Snippet:  parsererror.Snippet(*content, snippetLength),
		}
	}
	return d.run(h, filename, content, previousBalance), nil
}

// DispatchAs parses content with the named handler, bypassing detection.
func (d *Dispatcher) DispatchAs(bankName, filename string, content *string) (models.ParseResult, error) {
	for _, h := range d.handlers {
		if strings.EqualFold(h.BankName, bankName) {
			return d.run(h, filename, content, nil), nil
		}
	}
	if d.fallback != nil && strings.EqualFold(d.fallback.BankName, bankName) {
		return d.run(*d.fallback, filename, content, nil), nil
	}
	return models.ParseResult{}, fmt.Errorf("unknown bank %q", bankName)
}

func (d *Dispatcher) run(h bankparser.Handler, filename string, content *string, previousBalance *decimal.Decimal) models.ParseResult {
	result := h.Parse(content, previousBalance)
	fields := []logging.Field{
		{Key: logging.FieldFile, Value: filename},
		{Key: logging.FieldBank, Value: result.BankName},
		{Key: logging.FieldCount, Value: len(result.Transactions)},
	}
	if result.SkippedRows > 0 {
		d.logger.Warn("Skipped malformed rows", append(fields, logging.Field{Key: logging.FieldSkipped, Value: result.SkippedRows})...)
	} else {
		d.logger.Info("Parsed statement", fields...)
	}
	return result
}
