// =============================================================================
// Compute Sales - Sales Aggregator
// =============================================================================
//
// This module joins the sales rows with the price map and accumulates the
// total cost.
//
// PER ROW:
//   1. Row validation: object shape, "Product", "Quantity"
//   2. Optional fields: "SALE_ID", "SALE_Date" rendered as text, "N/A" if absent
//   3. Price lookup by trimmed product name
//   4. line_total = unit_price * quantity, added to the running total
//
// COUNTING:
//   A row that passes step 1 counts toward VALID_SALES_ROWS even when its
//   product is missing from the catalogue.
//
// =============================================================================

package aggregator

import (
	"fmt"
	"strconv"

	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/internal/validation"
)

// Sales field names.
const (
	FieldProduct  = "Product"
	FieldQuantity = "Quantity"
	FieldSaleID   = "SALE_ID"
	FieldSaleDate = "SALE_Date"
)

// Option configures Aggregate.
type Option func(*options)

type options struct {
	onRow func()
}

// WithRowHook registers fn to be called once after each sales row is handled.
func WithRowHook(fn func()) Option {
	return func(o *options) {
		o.onRow = fn
	}
}

// Aggregate validates and prices every sales row.
//
// PARAMETERS:
//   - prices: The price map built from the catalogue.
//   - raw: The decoded sales document.
//   - diag: Receives one diagnostic per skipped or unpriced row.
//
// RETURNS:
//   - The aggregation result.
//   - A *validation.SchemaError if raw is not an array.
func Aggregate(prices types.PriceMap, raw any, diag *validation.Collector, opts ...Option) (*types.Result, error) {
	rows, ok := raw.([]any)
	if !ok {
		return nil, &validation.SchemaError{Document: validation.DocumentSales}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	result := &types.Result{RowsRead: len(rows)}
	var lines []string

	for i, row := range rows {
		aggregateRow(prices, row, i+1, diag, result, &lines)
		if o.onRow != nil {
			o.onRow()
		}
	}

	result.Details = append([]string{fmt.Sprintf("VALID_SALES_ROWS: %d", result.ValidRows)}, lines...)
	return result, nil
}

func aggregateRow(prices types.PriceMap, raw any, rowNum int, diag *validation.Collector, result *types.Result, lines *[]string) {
	sale, verr := ParseSaleLine(raw, rowNum)
	if verr != nil {
		result.InvalidRows++
		diag.Add(verr)
		return
	}
	result.ValidRows++

	unitPrice, ok := prices.Lookup(sale.Product)
	if !ok {
		result.UnpricedRows++
		diag.Add(&validation.ValidationError{
			Document: validation.DocumentSales,
			Row:      rowNum,
			Field:    FieldProduct,
			Rule:     validation.RuleLookup,
			Value:    sale.Product,
			Message:  fmt.Sprintf("Product not found in catalogue: '%s'", sale.Product),
		})
		return
	}

	priced := types.PricedLine{
		SaleLine:  sale,
		UnitPrice: unitPrice,
		LineTotal: unitPrice * sale.Quantity,
	}
	result.Total += priced.LineTotal
	result.PricedLines = append(result.PricedLines, priced)
	*lines = append(*lines, FormatDetail(priced))
}

// ParseSaleLine applies the row checks to a single sales element.
func ParseSaleLine(raw any, rowNum int) (types.SaleLine, *validation.ValidationError) {
	record, ok := validation.AsRecord(raw)
	if !ok {
		return types.SaleLine{}, &validation.ValidationError{
			Document: validation.DocumentSales,
			Row:      rowNum,
			Rule:     validation.RuleShape,
			Value:    validation.Describe(raw, true),
			Message:  "Invalid row (not an object)",
		}
	}

	product, ok := validation.RequireText(record, FieldProduct)
	if !ok {
		value, present := record[FieldProduct]
		return types.SaleLine{}, &validation.ValidationError{
			Document: validation.DocumentSales,
			Row:      rowNum,
			Field:    FieldProduct,
			Rule:     validation.RuleText,
			Value:    validation.Describe(value, present),
			Message:  fmt.Sprintf("Missing/invalid '%s'", FieldProduct),
		}
	}

	rawQty, present := record[FieldQuantity]
	quantity, ok := validation.CoerceNumber(rawQty)
	if !ok {
		shown := validation.Describe(rawQty, present)
		written, _ := record[FieldProduct].(string)
		return types.SaleLine{}, &validation.ValidationError{
			Document: validation.DocumentSales,
			Row:      rowNum,
			Field:    FieldQuantity,
			Rule:     validation.RuleNumeric,
			Value:    shown,
			Message:  fmt.Sprintf("Invalid '%s' for product '%s': %s", FieldQuantity, written, shown),
		}
	}

	return types.SaleLine{
		RowNumber: rowNum,
		SaleID:    validation.OptionalText(record, FieldSaleID),
		SaleDate:  validation.OptionalText(record, FieldSaleDate),
		Product:   product,
		Quantity:  quantity,
	}, nil
}

// FormatDetail renders the report line for a priced sale.
func FormatDetail(line types.PricedLine) string {
	return fmt.Sprintf("- SALE_ID=%s | DATE=%s | PRODUCT='%s' | QTY=%s | UNIT=%.2f | LINE_TOTAL=%.2f",
		line.SaleID,
		line.SaleDate,
		line.Product,
		FormatQuantity(line.Quantity),
		line.UnitPrice,
		line.LineTotal,
	)
}

// FormatQuantity renders q in general form with six significant digits and no
// trailing zeros: 3, 2.5, 1e+06.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'g', 6, 64)
}
