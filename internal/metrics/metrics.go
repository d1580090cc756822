// ============================================================================
// Job Queue Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collect and expose job queue metrics for Prometheus monitoring
//
// Counters, a histogram and gauges behind a /metrics HTTP surface,
// grounded on job submission/completion events instead of
// enqueue/dispatch/dead-letter events (this queue has no retry or
// dead-letter concept).
//
// Metric Categories:
//
//   1. Job Counters - Cumulative, monotonically increasing:
//      - jobqueue_jobs_submitted_total
//      - jobqueue_jobs_finished_total{outcome="finished|cancelled|panicked"}
//
//   2. Performance Metrics (Histogram):
//      - jobqueue_job_duration_seconds
//
//   3. Status Metrics (Gauge) - Instantaneous values:
//      - jobqueue_pending_jobs
//      - jobqueue_running_jobs
//
// HTTP Endpoint:
//   Exposed via /metrics, scraped by Prometheus. Format: OpenMetrics /
//   Prometheus text format.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChuLiYu/stark-jobqueue/pkg/job"
)

// Collector collects Prometheus metrics for the job queue. It satisfies
// internal/jobqueue.Collector.
type Collector struct {
	jobsSubmitted prometheus.Counter
	jobsFinished  *prometheus.CounterVec
	jobDuration   prometheus.Histogram
	pendingJobs   prometheus.Gauge
	runningJobs   prometheus.Gauge
}

// NewCollector creates a new metrics collector and registers it with
// the default Prometheus registry.
func NewCollector() *Collector {
	c := &Collector{
		jobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jobqueue_jobs_submitted_total",
			Help: "Total number of jobs submitted to the queue",
		}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobqueue_jobs_finished_total",
			Help: "Total number of jobs that reached a terminal state, by outcome",
		}, []string{"outcome"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jobqueue_job_duration_seconds",
			Help:    "Wall-clock duration of a dispatched job from dispatch to completion",
			Buckets: prometheus.DefBuckets,
		}),
		pendingJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobqueue_pending_jobs",
			Help: "Current number of jobs waiting to be dispatched",
		}),
		runningJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jobqueue_running_jobs",
			Help: "Current number of jobs being run (0 or 1; the queue never runs more than one job at a time)",
		}),
	}

	prometheus.MustRegister(c.jobsSubmitted)
	prometheus.MustRegister(c.jobsFinished)
	prometheus.MustRegister(c.jobDuration)
	prometheus.MustRegister(c.pendingJobs)
	prometheus.MustRegister(c.runningJobs)

	return c
}

// RecordSubmitted records a successful Submit call.
func (c *Collector) RecordSubmitted() {
	c.jobsSubmitted.Inc()
}

// RecordFinished records a job reaching a terminal completion kind along
// with the latency of its dispatch-to-completion window.
func (c *Collector) RecordFinished(kind job.Kind, latency time.Duration) {
	c.jobsFinished.WithLabelValues(kind.String()).Inc()
	c.jobDuration.Observe(latency.Seconds())
	c.runningJobs.Set(0)
}

// SetPending sets the current pending-queue depth gauge.
func (c *Collector) SetPending(n int) {
	c.pendingJobs.Set(float64(n))
}

// SetRunning sets the current running-job gauge (0 or 1).
func (c *Collector) SetRunning(n int) {
	c.runningJobs.Set(float64(n))
}

// StartServer starts the Prometheus metrics HTTP server on port.
func StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, mux)
}
