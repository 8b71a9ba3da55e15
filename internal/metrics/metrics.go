package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"trendscout/internal/db"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendscout_pipeline_runs_total",
			Help: "Total pipeline runs by outcome",
		},
		[]string{"outcome"},
	)
	keywordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendscout_keywords_total",
			Help: "Keywords processed by pipeline outcome",
		},
		[]string{"outcome"},
	)
	apiCostTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trendscout_api_cost_dollars_total",
			Help: "Estimated external classification spend in USD",
		},
	)

	trendCountDesc = prometheus.NewDesc(
		"trendscout_trends",
		"Persisted trend records",
		nil, nil,
	)
	storedCostDesc = prometheus.NewDesc(
		"trendscout_stored_api_cost_dollars",
		"Accumulated API cost across all persisted trend records",
		nil, nil,
	)
)

// TrendCollector is a custom Prometheus collector that reads aggregate
// trend stats from the database on each scrape.
type TrendCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *TrendCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- trendCountDesc
	ch <- storedCostDesc
}

// Collect queries the database for trend aggregates and emits them as gauges.
func (c *TrendCollector) Collect(ch chan<- prometheus.Metric) {
	count, cost, err := c.db.TrendStats(context.Background())
	if err != nil {
		slog.Error("failed to collect trend metrics", "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(trendCountDesc, prometheus.GaugeValue, float64(count))
	ch <- prometheus.MustNewConstMetric(storedCostDesc, prometheus.GaugeValue, cost)
}

var initOnce sync.Once

// Init registers all collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(runsTotal, keywordsTotal, apiCostTotal)
		prometheus.MustRegister(&TrendCollector{db: database})
	})
}

// RecordRun counts one pipeline run with its outcome.
func RecordRun(outcome string) {
	runsTotal.WithLabelValues(outcome).Inc()
}

// RecordScored counts keywords scored this run.
func RecordScored(n int) {
	keywordsTotal.WithLabelValues("scored").Add(float64(n))
}

// RecordCached counts cache hits this run.
func RecordCached(n int) {
	keywordsTotal.WithLabelValues("cached").Add(float64(n))
}

// RecordBlocked counts blacklisted keywords this run.
func RecordBlocked(n int) {
	keywordsTotal.WithLabelValues("blocked").Add(float64(n))
}

// AddAPICost accumulates estimated external spend.
func AddAPICost(dollars float64) {
	apiCostTotal.Add(dollars)
}
