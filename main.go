// =============================================================================
// Compute Sales - Main Entry Point
// =============================================================================
//
// This is the main entry point for the computesales CLI. It delegates command
// execution to the cmd package.
//
// USAGE:
//   computesales priceCatalogue.json salesRecord.json  - Compute the sales total
//   computesales version                               - Display the version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Pipeline stages, configuration, exports, metrics
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/computesales/cmd"
)

func main() {
	cmd.Execute()
}
