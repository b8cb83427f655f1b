// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Monitor's per-provider statistics as Prometheus
// metrics. It reads point-in-time snapshots on every scrape rather than
// maintaining parallel counters.
//
// Metrics:
//   - draftgen_provider_requests_total
//   - draftgen_provider_successes_total
//   - draftgen_provider_failures_total
//   - draftgen_provider_rate_limit_hits_total
//   - draftgen_provider_success_rate
//   - draftgen_provider_avg_response_seconds
type Collector struct {
	monitor *Monitor

	requests      *prometheus.Desc
	successes     *prometheus.Desc
	failures      *prometheus.Desc
	rateLimitHits *prometheus.Desc
	successRate   *prometheus.Desc
	avgResponse   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector backed by m.
func NewCollector(m *Monitor) *Collector {
	labels := []string{"provider"}
	return &Collector{
		monitor: m,
		requests: prometheus.NewDesc(
			"draftgen_provider_requests_total",
			"Total generation requests sent to each provider.",
			labels, nil,
		),
		successes: prometheus.NewDesc(
			"draftgen_provider_successes_total",
			"Total successful generation calls per provider.",
			labels, nil,
		),
		failures: prometheus.NewDesc(
			"draftgen_provider_failures_total",
			"Total failed generation calls per provider.",
			labels, nil,
		),
		rateLimitHits: prometheus.NewDesc(
			"draftgen_provider_rate_limit_hits_total",
			"Failures classified as quota/rate-limit conditions per provider.",
			labels, nil,
		),
		successRate: prometheus.NewDesc(
			"draftgen_provider_success_rate",
			"Rolling success rate per provider (0 when untracked).",
			labels, nil,
		),
		avgResponse: prometheus.NewDesc(
			"draftgen_provider_avg_response_seconds",
			"Running mean latency of successful calls per provider.",
			labels, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.successes
	ch <- c.failures
	ch <- c.rateLimitHits
	ch <- c.successRate
	ch <- c.avgResponse
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, pm := range c.monitor.AllMetrics() {
		ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue,
			float64(pm.RequestCount), pm.Provider)
		ch <- prometheus.MustNewConstMetric(c.successes, prometheus.CounterValue,
			float64(pm.SuccessCount), pm.Provider)
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue,
			float64(pm.FailureCount), pm.Provider)
		ch <- prometheus.MustNewConstMetric(c.rateLimitHits, prometheus.CounterValue,
			float64(pm.RateLimitHits), pm.Provider)
		ch <- prometheus.MustNewConstMetric(c.successRate, prometheus.GaugeValue,
			c.monitor.SuccessRate(pm.Provider), pm.Provider)
		ch <- prometheus.MustNewConstMetric(c.avgResponse, prometheus.GaugeValue,
			pm.AvgResponseTime.Seconds(), pm.Provider)
	}
}
