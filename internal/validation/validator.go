// =============================================================================
// Compute Sales - Validation Engine
// =============================================================================
//
// This module provides the row-level validation used by the catalogue builder
// and the sales aggregator:
//   - Record shape checks (is the row a JSON object?)
//   - Required text fields (non-empty after trimming)
//   - Numeric coercion (JSON numbers or numeric strings)
//   - Optional fields rendered as text with an "N/A" fallback
//
// VALIDATION STRATEGY:
//   Each field has its own extraction function returning either a typed value
//   or a failure. Callers apply them as an ordered checklist per row and stop
//   at the first failure.
//
// ERROR HANDLING:
//   - Row failures are collected, not thrown
//   - Each failure records document, row, field and offending value
//   - Only a document whose top level is not an array is fatal (SchemaError)
//
// =============================================================================

package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ginjaninja78/computesales/internal/types"
)

// Document names used in diagnostics.
const (
	DocumentCatalogue = "Catalogue"
	DocumentSales     = "Sales"
)

// Rule names recorded on each ValidationError.
const (
	RuleShape   = "shape"
	RuleText    = "text"
	RuleNumeric = "numeric"
	RuleLookup  = "lookup"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ValidationError describes a single skipped row.
type ValidationError struct {
	// Document is DocumentCatalogue or DocumentSales.
	Document string

	// Row is the 1-indexed position of the row in its document.
	Row int

	// Field is the name of the field that failed, empty for shape failures.
	Field string

	// Value is the offending value rendered as text.
	Value string

	// Rule is the check that was violated.
	Rule string

	// Message is the human-readable reason.
	Message string
}

// Error implements the error interface. The result is the console diagnostic.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s row %d] %s. Skipping.", e.Document, e.Row, e.Message)
}

// SchemaError reports a document whose top-level value is not an array.
type SchemaError struct {
	// Document is DocumentCatalogue or DocumentSales.
	Document string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Document == DocumentCatalogue {
		return "Price catalogue JSON must be a list of product objects."
	}
	return "Sales record JSON must be a list of sale objects."
}

// =============================================================================
// COLLECTOR
// =============================================================================

// Collector prints each diagnostic as it is added and keeps it for later use
// by the exports and metrics.
type Collector struct {
	out    io.Writer
	errors []*ValidationError
}

// NewCollector returns a Collector that prints to out. A nil out discards output.
func NewCollector(out io.Writer) *Collector {
	if out == nil {
		out = io.Discard
	}
	return &Collector{out: out}
}

// Add records err and prints its diagnostic line.
func (c *Collector) Add(err *ValidationError) {
	c.errors = append(c.errors, err)
	fmt.Fprintln(c.out, err.Error())
}

// Errors returns the collected diagnostics in the order they were added.
func (c *Collector) Errors() []*ValidationError {
	return c.errors
}

// Count returns how many diagnostics were recorded for document.
func (c *Collector) Count(document string) int {
	n := 0
	for _, err := range c.errors {
		if err.Document == document {
			n++
		}
	}
	return n
}

// =============================================================================
// FIELD EXTRACTORS
// =============================================================================

// AsRecord returns raw as a JSON object.
func AsRecord(raw any) (map[string]any, bool) {
	record, ok := raw.(map[string]any)
	return record, ok
}

// RequireText returns the trimmed string stored under field. It fails when the
// field is missing, not a string, or blank.
func RequireText(record map[string]any, field string) (string, bool) {
	text, ok := record[field].(string)
	if !ok {
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

// CoerceNumber converts a JSON number or a numeric string to a finite float64.
// Booleans, null, objects and arrays are rejected. Prices and quantities share
// the finiteness rule so that every line total and the report total stay finite.
func CoerceNumber(value any) (float64, bool) {
	var (
		f   float64
		err error
	)

	switch v := value.(type) {
	case json.Number:
		f, err = strconv.ParseFloat(v.String(), 64)
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		f, err = parseNumericText(v)
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumericText parses a decimal number surrounded by optional whitespace.
func parseNumericText(s string) (float64, error) {
	s = strings.TrimSpace(s)
	// strconv accepts hexadecimal floats; plain decimal notation only here.
	if strings.ContainsAny(s, "xX") {
		return 0, fmt.Errorf("not a decimal number: %q", s)
	}
	return strconv.ParseFloat(s, 64)
}

// OptionalText renders the value stored under field as text. JSON null renders
// as "null". A missing field, or one that cannot be rendered, yields
// types.NotAvailable.
func OptionalText(record map[string]any, field string) string {
	value, ok := record[field]
	if !ok {
		return types.NotAvailable
	}
	text, ok := render(value)
	if !ok {
		return types.NotAvailable
	}
	return text
}

// Describe renders any raw value for use inside a diagnostic message.
func Describe(value any, present bool) string {
	if !present {
		return "<missing>"
	}
	if value == nil {
		return "null"
	}
	text, ok := render(value)
	if !ok {
		return "<unprintable>"
	}
	return text
}

// render converts a decoded JSON value to text. Strings and numbers keep their
// source spelling; objects and arrays are rendered as compact JSON.
func render(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case nil:
		return "null", true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}
