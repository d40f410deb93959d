// =============================================================================
// Compute Sales - Report Writer
// =============================================================================
//
// This module renders the sales summary and writes it to the console and to
// the result file.
//
// LAYOUT:
//   SALES SUMMARY
//   =============
//   VALID_SALES_ROWS: <n>
//   - SALE_ID=... | DATE=... | PRODUCT='...' | QTY=... | UNIT=... | LINE_TOTAL=...
//   <blank>
//   TOTAL_COST: <total, 2 decimals>
//   ELAPSED_SECONDS: <seconds, 6 decimals>
//
// =============================================================================

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/pkg/utils"
)

// DefaultFileName is the result file written in the working directory.
const DefaultFileName = "SalesResults.txt"

// Header lines of every report.
const (
	Title     = "SALES SUMMARY"
	Underline = "============="
)

// Build returns the report lines for result.
func Build(result *types.Result, elapsed time.Duration) []string {
	lines := make([]string, 0, len(result.Details)+5)
	lines = append(lines, Title, Underline)
	lines = append(lines, result.Details...)
	lines = append(lines,
		"",
		fmt.Sprintf("TOTAL_COST: %.2f", result.Total),
		fmt.Sprintf("ELAPSED_SECONDS: %.6f", elapsed.Seconds()),
	)
	return lines
}

// Write prints lines to out, then writes them to path.
func Write(out io.Writer, path string, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to print report: %w", err)
		}
	}

	if err := utils.WriteLines(path, lines); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
