// =============================================================================
// Compute Sales - Catalogue Builder
// =============================================================================
//
// This module turns the decoded price catalogue into a PriceMap.
//
// ROW CHECKS (in order, first failure skips the row):
//   1. The row is a JSON object
//   2. "title" is a non-blank string
//   3. "price" is a number or a numeric string
//
// A later row with the same trimmed title replaces the earlier price without
// a diagnostic.
//
// =============================================================================

package catalogue

import (
	"fmt"

	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/internal/validation"
)

// Catalogue field names.
const (
	FieldTitle = "title"
	FieldPrice = "price"
)

// Build validates every catalogue row and returns the resulting price map.
//
// PARAMETERS:
//   - raw: The decoded catalogue document.
//   - diag: Receives one diagnostic per skipped row.
//
// RETURNS:
//   - The price map, possibly empty.
//   - A *validation.SchemaError if raw is not an array.
func Build(raw any, diag *validation.Collector) (types.PriceMap, error) {
	rows, ok := raw.([]any)
	if !ok {
		return nil, &validation.SchemaError{Document: validation.DocumentCatalogue}
	}

	prices := make(types.PriceMap, len(rows))
	for i, row := range rows {
		title, price, verr := parseEntry(row, i+1)
		if verr != nil {
			diag.Add(verr)
			continue
		}
		prices[title] = price
	}

	return prices, nil
}

// parseEntry applies the row checks to a single catalogue element.
func parseEntry(raw any, rowNum int) (string, float64, *validation.ValidationError) {
	record, ok := validation.AsRecord(raw)
	if !ok {
		return "", 0, &validation.ValidationError{
			Document: validation.DocumentCatalogue,
			Row:      rowNum,
			Rule:     validation.RuleShape,
			Value:    validation.Describe(raw, true),
			Message:  "Invalid item (not an object)",
		}
	}

	title, ok := validation.RequireText(record, FieldTitle)
	if !ok {
		value, present := record[FieldTitle]
		return "", 0, &validation.ValidationError{
			Document: validation.DocumentCatalogue,
			Row:      rowNum,
			Field:    FieldTitle,
			Rule:     validation.RuleText,
			Value:    validation.Describe(value, present),
			Message:  fmt.Sprintf("Missing/invalid '%s'", FieldTitle),
		}
	}

	rawPrice, present := record[FieldPrice]
	price, ok := validation.CoerceNumber(rawPrice)
	if !ok {
		shown := validation.Describe(rawPrice, present)
		// The message quotes the title as written, padding included.
		written, _ := record[FieldTitle].(string)
		return "", 0, &validation.ValidationError{
			Document: validation.DocumentCatalogue,
			Row:      rowNum,
			Field:    FieldPrice,
			Rule:     validation.RuleNumeric,
			Value:    shown,
			Message:  fmt.Sprintf("Invalid '%s' for title '%s': %s", FieldPrice, written, shown),
		}
	}

	return title, price, nil
}
