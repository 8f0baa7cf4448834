package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineStats provides the metrics collector access to pipeline state.
type PipelineStats interface {
	InFlight() int64
	Processed() int64
	Failed() int64
}

// Collector implements prometheus.Collector to read live gauges at scrape time.
type Collector struct {
	stats PipelineStats

	inFlight  *prometheus.Desc
	processed *prometheus.Desc
	failed    *prometheus.Desc
}

// NewCollector creates a collector that reads live state at scrape time.
// stats may be nil (metrics will report 0).
func NewCollector(stats PipelineStats) *Collector {
	return &Collector{
		stats: stats,
		inFlight: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "video", "pipelines_in_flight"),
			"Video pipelines currently running.",
			nil, nil,
		),
		processed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "video", "pipelines_completed_total"),
			"Video pipelines that returned a summary.",
			nil, nil,
		),
		failed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "video", "pipelines_failed_total"),
			"Video pipelines that ended in an error.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inFlight
	ch <- c.processed
	ch <- c.failed
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	var inFlight, processed, failed float64
	if c.stats != nil {
		inFlight = float64(c.stats.InFlight())
		processed = float64(c.stats.Processed())
		failed = float64(c.stats.Failed())
	}
	ch <- prometheus.MustNewConstMetric(c.inFlight, prometheus.GaugeValue, inFlight)
	ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, processed)
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, failed)
}
