// Package metrics exposes job lifecycle counters on the default Prometheus
// registry, served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mokuso_jobs_submitted_total",
		Help: "Number of generation jobs submitted.",
	})
	JobsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mokuso_jobs_completed_total",
		Help: "Number of generation jobs that completed successfully.",
	})
	JobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mokuso_jobs_failed_total",
		Help: "Number of generation jobs that ended in failure.",
	})
)
