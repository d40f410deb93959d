// =============================================================================
// Compute Sales - Run Metrics
// =============================================================================
//
// This module records the outcome of one run in Prometheus metrics and writes
// them in the text exposition format for the node exporter textfile collector.
//
// METRICS:
//   computesales_rows_total{document,outcome}
//   computesales_catalogue_products
//   computesales_total_cost
//   computesales_elapsed_seconds
//   computesales_last_run_timestamp_seconds
//
// =============================================================================

package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ginjaninja78/computesales/internal/types"
	"github.com/ginjaninja78/computesales/internal/validation"
	"github.com/ginjaninja78/computesales/pkg/utils"
)

const metricPrefix = "computesales_"

// Row outcomes recorded on rows_total.
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomePriced   = "priced"
	OutcomeUnpriced = "unpriced"
)

// Batch holds the metrics of a single run on a private registry, ready to be
// written for the node exporter textfile collector.
type Batch struct {
	registry *prometheus.Registry

	rows         *prometheus.CounterVec
	products     prometheus.Gauge
	totalCost    prometheus.Gauge
	elapsed      prometheus.Gauge
	lastRunStamp prometheus.Gauge
}

// Observation is what a finished run reports.
type Observation struct {
	CatalogueRows    int
	CatalogueSkipped int
	Products         int
	Result           *types.Result
	Elapsed          time.Duration
	FinishedAt       time.Time
}

// NewBatch registers the run metrics on a fresh registry.
func NewBatch() *Batch {
	b := &Batch{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_total",
				Help: "Input rows by document and outcome",
			},
			[]string{"document", "outcome"},
		),
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "catalogue_products",
			Help: "Distinct products in the price map",
		}),
		totalCost: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "total_cost",
			Help: "Total cost of priced sales in the last run",
		}),
		elapsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "elapsed_seconds",
			Help: "Duration of load, price map and aggregation stages",
		}),
		lastRunStamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_timestamp_seconds",
			Help: "Unix time the last successful run finished",
		}),
	}
	b.registry.MustRegister(b.rows, b.products, b.totalCost, b.elapsed, b.lastRunStamp)
	return b
}

// Observe records the outcome of a run.
func (b *Batch) Observe(o Observation) {
	catalogue := validation.DocumentCatalogue
	sales := validation.DocumentSales
	result := o.Result

	b.rows.WithLabelValues(catalogue, OutcomeAccepted).Add(float64(o.CatalogueRows - o.CatalogueSkipped))
	b.rows.WithLabelValues(catalogue, OutcomeInvalid).Add(float64(o.CatalogueSkipped))
	b.rows.WithLabelValues(sales, OutcomeInvalid).Add(float64(result.InvalidRows))
	b.rows.WithLabelValues(sales, OutcomePriced).Add(float64(result.PricedRows()))
	b.rows.WithLabelValues(sales, OutcomeUnpriced).Add(float64(result.UnpricedRows))

	b.products.Set(float64(o.Products))
	b.totalCost.Set(result.Total)
	b.elapsed.Set(o.Elapsed.Seconds())
	b.lastRunStamp.Set(float64(o.FinishedAt.Unix()))
}

// WriteTextfile writes the metrics in the Prometheus text format to path.
func (b *Batch) WriteTextfile(path string) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, b.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
