// =============================================================================
// Compute Sales - Spreadsheet Export
// =============================================================================
//
// This module renders the sales summary as an XLSX workbook with three sheets:
//   - summary     : run information and totals
//   - lines       : one row per priced sale
//   - diagnostics : one row per skipped or unpriced row
//
// =============================================================================

package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/internal/validation"
)

// Sheet names used in the workbook.
const (
	SheetSummary     = "summary"
	SheetLines       = "lines"
	SheetDiagnostics = "diagnostics"
)

// Summary is the data shared by every export format.
type Summary struct {
	RunID       string
	StartedAt   time.Time
	Elapsed     time.Duration
	Products    int
	Result      *types.Result
	Diagnostics []*validation.ValidationError
}

// BuildXLSX renders summary as an XLSX workbook.
func BuildXLSX(summary Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetLines); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", SheetLines, err)
	}
	if _, err := f.NewSheet(SheetDiagnostics); err != nil {
		return nil, fmt.Errorf("failed to create sheet %s: %w", SheetDiagnostics, err)
	}

	result := summary.Result
	summaryRows := [][]any{
		{"Sales Summary"},
		{},
		{"Run ID", summary.RunID},
		{"Started", summary.StartedAt.Format(time.RFC3339)},
		{"Products in catalogue", summary.Products},
		{"Sales rows read", result.RowsRead},
		{"Valid sales rows", result.ValidRows},
		{"Priced sales rows", result.PricedRows()},
		{"Unpriced sales rows", result.UnpricedRows},
		{"Invalid sales rows", result.InvalidRows},
		{"Total cost", result.Total},
		{"Elapsed seconds", summary.Elapsed.Seconds()},
	}
	if err := setRows(f, SheetSummary, summaryRows); err != nil {
		return nil, err
	}

	lineRows := [][]any{{"Row", "Sale ID", "Date", "Product", "Quantity", "Unit price", "Line total"}}
	for _, line := range result.PricedLines {
		lineRows = append(lineRows, []any{
			line.RowNumber, line.SaleID, line.SaleDate, line.Product,
			line.Quantity, line.UnitPrice, line.LineTotal,
		})
	}
	if err := setRows(f, SheetLines, lineRows); err != nil {
		return nil, err
	}

	diagRows := [][]any{{"Document", "Row", "Field", "Rule", "Value", "Message"}}
	for _, d := range summary.Diagnostics {
		diagRows = append(diagRows, []any{d.Document, d.Row, d.Field, d.Rule, d.Value, d.Message})
	}
	if err := setRows(f, SheetDiagnostics, diagRows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// setRows writes rows starting at A1.
func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
