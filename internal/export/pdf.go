// =============================================================================
// Compute Sales - PDF Export
// =============================================================================
//
// This module renders the sales summary as a single A4 document: run
// information, a table of priced sales, then the total and elapsed time in
// the same format as the text report.
//
// =============================================================================

package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ginjaninja78/computesales/internal/aggregator"
)

// BuildPDF renders summary as a PDF document.
func BuildPDF(summary Summary) ([]byte, error) {
	result := summary.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Sales Summary")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Run: %s", summary.RunID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Started: %s", summary.StartedAt.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Valid sales rows: %d", result.ValidRows))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Skipped rows: %d", len(summary.Diagnostics)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(25, 6, "Sale ID", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(55, 6, "Product", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Unit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Line total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range result.PricedLines {
		pdf.CellFormat(25, 6, tr(line.SaleID), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, tr(line.SaleDate), "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 6, tr(line.Product), "1", 0, "L", false, 0, "")
		pdf.CellFormat(22, 6, aggregator.FormatQuantity(line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", line.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", line.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("TOTAL_COST: %.2f", result.Total))
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("ELAPSED_SECONDS: %.6f", summary.Elapsed.Seconds()))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
