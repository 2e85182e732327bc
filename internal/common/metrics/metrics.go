// internal/common/metrics/metrics.go
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SurveyCopiesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_copies_completed_total",
			Help: "Total number of survey copies created",
		},
		[]string{"template_id"},
	)

	SurveyCopiesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_copies_failed_total",
			Help: "Total number of survey copy requests that failed",
		},
		[]string{"template_id", "error_code"},
	)

	SurveyCopyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "survey_copy_duration_seconds",
			Help:    "Duration of survey copy requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"template_id"},
	)

	SurveyCopiesActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "survey_copies_active",
			Help: "Number of survey copy requests in flight",
		},
		[]string{"template_id"},
	)
)

// WriteTextfile dumps every metric in gatherer to path in the text exposition
// format, for collection by node_exporter's textfile collector.
func WriteTextfile(path string, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
