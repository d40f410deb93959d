// =============================================================================
// Compute Sales - Compute Command
// =============================================================================
//
// This file holds the body of the root command. It orchestrates one run:
//
// PROCESSING PIPELINE:
//   1. Load both documents, build the price map, aggregate the sales
//   2. Print the summary and write the result file
//   3. Write the optional XLSX and PDF exports
//   4. Write the optional metrics textfile
//
// A failure in step 1 prints its message and writes no result file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ginjaninja78/computesales/internal/config"
	"github.com/ginjaninja78/computesales/internal/export"
	"github.com/ginjaninja78/computesales/internal/logging"
	"github.com/ginjaninja78/computesales/internal/metrics"
	"github.com/ginjaninja78/computesales/internal/pipeline"
	"github.com/ginjaninja78/computesales/internal/report"
	"github.com/ginjaninja78/computesales/pkg/utils"
)

// runCompute executes one run. Everything meant for the user goes to out;
// logs and the progress bar go to errOut.
func runCompute(out, errOut io.Writer, cataloguePath, salesPath string, cfg config.Config) error {
	logger := logging.New(cfg.LogLevel, errOut)
	logger.Debug("configuration resolved",
		slog.String("output_file", cfg.OutputFile),
		slog.String("xlsx_file", cfg.XLSXFile),
		slog.String("pdf_file", cfg.PDFFile),
		slog.String("metrics_file", cfg.MetricsFile),
	)

	// =========================================================================
	// STEP 1: COMPUTE
	// =========================================================================

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if cfg.Progress {
		opts = append(opts, pipeline.WithProgress(errOut))
	}

	outcome, err := pipeline.New(cataloguePath, salesPath, out, opts...).Run()
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return errReported
	}
	logger = logger.With(slog.String("run_id", outcome.RunID))

	// =========================================================================
	// STEP 2: REPORT
	// =========================================================================

	lines := report.Build(outcome.Result, outcome.Elapsed)
	if utils.FileExists(cfg.OutputFile) {
		logger.Debug("replacing previous report", slog.String("path", cfg.OutputFile))
	}
	if err := report.Write(out, cfg.OutputFile, lines); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return errReported
	}
	logger.Info("report written", slog.String("path", cfg.OutputFile))

	// =========================================================================
	// STEP 3: EXPORTS
	// =========================================================================

	summary := export.Summary{
		RunID:       outcome.RunID,
		StartedAt:   outcome.StartedAt,
		Elapsed:     outcome.Elapsed,
		Products:    len(outcome.Prices),
		Result:      outcome.Result,
		Diagnostics: outcome.Diagnostics,
	}
	params := map[string]string{"run_id": outcome.RunID}

	exports := []struct {
		format string
		path   string
		build  func(export.Summary) ([]byte, error)
	}{
		{"xlsx", cfg.XLSXFile, export.BuildXLSX},
		{"pdf", cfg.PDFFile, export.BuildPDF},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		path := utils.GenerateOutputFileName(e.path, params)
		data, err := e.build(summary)
		if err == nil {
			err = utils.WriteFile(path, data)
		}
		if err != nil {
			fmt.Fprintf(out, "Error: failed to write %s export: %v\n", e.format, err)
			return errReported
		}
		logger.Info("export written", slog.String("format", e.format), slog.String("path", path))
	}

	// =========================================================================
	// STEP 4: METRICS
	// =========================================================================

	if cfg.MetricsFile != "" {
		batch := metrics.NewBatch()
		batch.Observe(metrics.Observation{
			CatalogueRows:    outcome.CatalogueRows,
			CatalogueSkipped: outcome.CatalogueSkipped,
			Products:         len(outcome.Prices),
			Result:           outcome.Result,
			Elapsed:          outcome.Elapsed,
			FinishedAt:       time.Now(),
		})
		if err := batch.WriteTextfile(cfg.MetricsFile); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return errReported
		}
		logger.Info("metrics written", slog.String("path", cfg.MetricsFile))
	}

	return nil
}
