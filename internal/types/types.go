// =============================================================================
// Compute Sales - Shared Types
// =============================================================================
//
// This package contains the value types passed between pipeline stages. They
// live here to avoid import cycles between:
//   - catalogue
//   - aggregator
//   - report
//   - export
//
// =============================================================================

package types

// NotAvailable is the placeholder used for optional sale fields that are absent.
const NotAvailable = "N/A"

// =============================================================================
// CATALOGUE TYPES
// =============================================================================

// PriceMap maps a trimmed, case-sensitive product name to its unit price.
// It is built once by the catalogue builder and only read afterwards.
type PriceMap map[string]float64

// Lookup returns the unit price for product and whether it was found.
func (p PriceMap) Lookup(product string) (float64, bool) {
	price, ok := p[product]
	return price, ok
}

// =============================================================================
// SALES TYPES
// =============================================================================

// SaleLine is a sales row that passed row-level validation.
// It is built per row and never modified afterwards.
type SaleLine struct {
	// RowNumber is the 1-indexed position of the row in the sales document.
	RowNumber int

	// SaleID is the stringified SALE_ID, or NotAvailable.
	SaleID string

	// SaleDate is the stringified SALE_Date, or NotAvailable.
	SaleDate string

	// Product is the trimmed product name. Never empty.
	Product string

	// Quantity may be zero or negative.
	Quantity float64
}

// PricedLine is a SaleLine joined with its catalogue price.
type PricedLine struct {
	SaleLine

	UnitPrice float64
	LineTotal float64
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the output of the sales aggregator.
type Result struct {
	// Total is the sum of LineTotal over PricedLines.
	Total float64

	// Details holds the report detail lines in input order. The first line is
	// always the VALID_SALES_ROWS counter.
	Details []string

	// PricedLines holds the structured form of every priced detail line.
	PricedLines []PricedLine

	// RowsRead is the number of elements in the sales document.
	RowsRead int

	// ValidRows counts rows that passed row-level validation, priced or not.
	ValidRows int

	// InvalidRows counts rows rejected by row-level validation.
	InvalidRows int

	// UnpricedRows counts valid rows whose product is not in the catalogue.
	UnpricedRows int
}

// PricedRows returns the number of rows that contributed to Total.
func (r *Result) PricedRows() int {
	return len(r.PricedLines)
}
