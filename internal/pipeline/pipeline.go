// =============================================================================
// Compute Sales - Pipeline
// =============================================================================
//
// This module runs the computation stages for one pair of input files, in
// program order and on the calling goroutine:
//   1. Load the price catalogue
//   2. Load the sales record
//   3. Build the price map
//   4. Aggregate the sales
//
// The elapsed time reported in the summary brackets exactly these stages.
// Writing the report and the exports is left to the caller.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/ginjaninja78/computesales/internal/aggregator"
	"github.com/ginjaninja78/computesales/internal/catalogue"
	"github.com/ginjaninja78/computesales/internal/loader"
	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/internal/validation"
)

// =============================================================================
// ERRORS
// =============================================================================

// Stage identifies where a fatal error happened.
type Stage string

const (
	StageLoadCatalogue Stage = "load_catalogue"
	StageLoadSales     Stage = "load_sales"
	StageProcess       Stage = "process"
)

// StageError is a fatal pipeline error. Its message is the console text shown
// to the user.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	switch e.Stage {
	case StageLoadCatalogue:
		return fmt.Sprintf("Error reading catalogue file '%s': %v", e.Path, e.Err)
	case StageLoadSales:
		return fmt.Sprintf("Error reading sales file '%s': %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("Error processing data: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// =============================================================================
// PIPELINE
// =============================================================================

// Outcome is the result of a successful run.
type Outcome struct {
	// RunID identifies the run in logs and exports.
	RunID string

	// StartedAt is the wall-clock start of the run.
	StartedAt time.Time

	// Elapsed covers loading, price map building and aggregation.
	Elapsed time.Duration

	// CatalogueRows is the number of elements in the catalogue document.
	CatalogueRows int

	// CatalogueSkipped is the number of catalogue rows rejected by validation.
	CatalogueSkipped int

	// Prices is the validated price map.
	Prices types.PriceMap

	// Result is the aggregation result.
	Result *types.Result

	// Diagnostics holds every skipped-row diagnostic in the order printed.
	Diagnostics []*validation.ValidationError
}

// Pipeline computes the sales total for one catalogue and one sales record.
type Pipeline struct {
	cataloguePath string
	salesPath     string

	// diagOut receives the row diagnostics as they happen.
	diagOut io.Writer

	// progressOut receives the progress bar; nil disables it.
	progressOut io.Writer

	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress renders a progress bar for the sales rows on w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progressOut = w
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline. Row diagnostics are printed to diagOut.
func New(cataloguePath, salesPath string, diagOut io.Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		cataloguePath: cataloguePath,
		salesPath:     salesPath,
		diagOut:       diagOut,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the stages. Any returned error is a *StageError.
func (p *Pipeline) Run() (*Outcome, error) {
	outcome := &Outcome{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	logger := p.logger.With(slog.String("run_id", outcome.RunID))
	start := time.Now()

	// =========================================================================
	// STEP 1-2: LOAD DOCUMENTS
	// =========================================================================

	catalogueRaw, err := loader.Load(p.cataloguePath)
	if err != nil {
		return nil, &StageError{Stage: StageLoadCatalogue, Path: p.cataloguePath, Err: err}
	}
	logger.Debug("loaded catalogue", slog.String("path", p.cataloguePath))

	salesRaw, err := loader.Load(p.salesPath)
	if err != nil {
		return nil, &StageError{Stage: StageLoadSales, Path: p.salesPath, Err: err}
	}
	logger.Debug("loaded sales record", slog.String("path", p.salesPath))

	// =========================================================================
	// STEP 3: BUILD PRICE MAP
	// =========================================================================

	diag := validation.NewCollector(p.diagOut)

	prices, err := catalogue.Build(catalogueRaw, diag)
	if err != nil {
		return nil, &StageError{Stage: StageProcess, Path: p.cataloguePath, Err: err}
	}
	if rows, ok := catalogueRaw.([]any); ok {
		outcome.CatalogueRows = len(rows)
	}
	outcome.CatalogueSkipped = diag.Count(validation.DocumentCatalogue)
	logger.Info("built price map",
		slog.Int("rows", outcome.CatalogueRows),
		slog.Int("products", len(prices)),
		slog.Int("skipped", outcome.CatalogueSkipped),
	)

	// =========================================================================
	// STEP 4: AGGREGATE SALES
	// =========================================================================

	var aggOpts []aggregator.Option
	var bar *progressbar.ProgressBar
	if rows, ok := salesRaw.([]any); ok && p.progressOut != nil {
		bar = progressbar.NewOptions(len(rows),
			progressbar.OptionSetWriter(p.progressOut),
			progressbar.OptionSetDescription("sales rows"),
			progressbar.OptionClearOnFinish(),
		)
		aggOpts = append(aggOpts, aggregator.WithRowHook(func() { _ = bar.Add(1) }))
	}

	result, err := aggregator.Aggregate(prices, salesRaw, diag, aggOpts...)
	if err != nil {
		return nil, &StageError{Stage: StageProcess, Path: p.salesPath, Err: err}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	outcome.Elapsed = time.Since(start)
	outcome.Prices = prices
	outcome.Result = result
	outcome.Diagnostics = diag.Errors()

	logger.Info("aggregated sales",
		slog.Int("rows", result.RowsRead),
		slog.Int("valid", result.ValidRows),
		slog.Int("priced", result.PricedRows()),
		slog.Int("unpriced", result.UnpricedRows),
		slog.Duration("elapsed", outcome.Elapsed),
	)

	return outcome, nil
}
