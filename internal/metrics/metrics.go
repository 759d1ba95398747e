// Package metrics exposes Prometheus counters for the webhook pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total webhook events by kind and outcome.",
		},
		[]string{"kind", "status"},
	)
	ConsolidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "consolidation_failures_total",
			Help: "Total background consolidation failures.",
		},
	)
	ReportFilesWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "report_files_written_total",
			Help: "Total decoded report files persisted to the blob store.",
		},
	)
)

func init() {
	prometheus.MustRegister(WebhookEvents, ConsolidationFailures, ReportFilesWritten)
}

// Handler exposes the Prometheus scrape endpoint on a gin route.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
