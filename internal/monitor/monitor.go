// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package monitor tracks rolling per-provider performance statistics and
// derives the avoidance and selection policy the generator uses to order
// its failover attempts.
package monitor

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// eventBufferCap bounds the diagnostic event ring buffer.
	eventBufferCap = 100

	// minRequestsForAvoidance is the warm-up threshold below which a poor
	// success rate does not flag a provider. Avoids writing off a provider
	// after a single unlucky call.
	minRequestsForAvoidance = 5

	// avoidanceSuccessRate is the success rate below which a warmed-up
	// provider is flagged.
	avoidanceSuccessRate = 0.5

	// rateLimitCooldown approximates typical upstream quota reset windows
	// without parsing provider-specific retry-after headers.
	rateLimitCooldown = 5 * time.Minute
)

// Event records the outcome of one provider call.
type Event struct {
	Provider  string
	Success   bool
	Duration  time.Duration
	Err       string
	Timestamp time.Time
}

// Metrics is a point-in-time snapshot of one provider's rolling statistics.
// RequestCount == SuccessCount + FailureCount always holds.
type Metrics struct {
	Provider        string        `json:"provider"`
	RequestCount    int64         `json:"request_count"`
	SuccessCount    int64         `json:"success_count"`
	FailureCount    int64         `json:"failure_count"`
	AvgResponseTime time.Duration `json:"avg_response_time"`
	LastFailure     *time.Time    `json:"last_failure,omitempty"`
	RateLimitHits   int64         `json:"rate_limit_hits"`
}

// Monitor is the single owner of per-provider metrics and the bounded
// recent-event buffer. All methods are safe for concurrent use. A Monitor
// is explicitly constructed and injected; there is no package-level instance.
type Monitor struct {
	mu      sync.RWMutex
	metrics map[string]*Metrics
	events  []Event
	nowFunc func() time.Time // for testing
}

// New creates an empty Monitor.
func New() *Monitor {
	return &Monitor{
		metrics: make(map[string]*Metrics),
		nowFunc: time.Now,
	}
}

// SetNowFunc overrides the time source (for testing).
func (m *Monitor) SetNowFunc(fn func() time.Time) {
	m.mu.Lock()
	m.nowFunc = fn
	m.mu.Unlock()
}

// Record folds an event into the provider's metrics and appends it to the
// event buffer, evicting the oldest entry at capacity. It never fails.
func (m *Monitor) Record(ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev.Timestamp.IsZero() {
		ev.Timestamp = m.nowFunc()
	}

	pm, ok := m.metrics[ev.Provider]
	if !ok {
		pm = &Metrics{Provider: ev.Provider}
		m.metrics[ev.Provider] = pm
	}

	pm.RequestCount++
	if ev.Success {
		pm.SuccessCount++
		// Incremental running mean over successful calls only.
		pm.AvgResponseTime += (ev.Duration - pm.AvgResponseTime) / time.Duration(pm.SuccessCount)
	} else {
		pm.FailureCount++
		ts := ev.Timestamp
		pm.LastFailure = &ts
		if isRateLimitError(ev.Err) {
			pm.RateLimitHits++
		}
	}

	m.events = append(m.events, ev)
	if len(m.events) > eventBufferCap {
		m.events = m.events[1:]
	}
}

// ProviderMetrics returns a snapshot of one provider's metrics.
func (m *Monitor) ProviderMetrics(provider string) (Metrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pm, ok := m.metrics[provider]
	if !ok {
		return Metrics{}, false
	}
	return snapshot(pm), true
}

// AllMetrics returns snapshots for every tracked provider, sorted by name
// for stable output.
func (m *Monitor) AllMetrics() []Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Metrics, 0, len(m.metrics))
	for _, pm := range m.metrics {
		out = append(out, snapshot(pm))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// RecentEvents returns a copy of the buffered events, oldest first.
func (m *Monitor) RecentEvents() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// SuccessRate returns successes/requests for a provider, 0 when the
// provider is unknown or has no recorded requests.
func (m *Monitor) SuccessRate(provider string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.successRateLocked(provider)
}

// ShouldAvoid reports whether a provider should currently be skipped:
// either its success rate fell below 50% after the warm-up threshold, or
// it was rate limited within the cooldown window. Unknown providers are
// never avoided. Re-evaluated on every call, never cached.
func (m *Monitor) ShouldAvoid(provider string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shouldAvoidLocked(provider)
}

// BestProvider returns the non-avoided provider with the highest success
// rate, tie-broken by lower average response time. Returns false when no
// tracked provider qualifies.
func (m *Monitor) BestProvider() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		best     string
		bestRate = -1.0
		bestAvg  time.Duration
	)
	for name, pm := range m.metrics {
		if m.shouldAvoidLocked(name) {
			continue
		}
		rate := m.successRateLocked(name)
		if rate > bestRate || (rate == bestRate && pm.AvgResponseTime < bestAvg) {
			best = name
			bestRate = rate
			bestAvg = pm.AvgResponseTime
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// ResetProvider removes one provider's metrics and its buffered events.
func (m *Monitor) ResetProvider(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.metrics, provider)

	kept := m.events[:0]
	for _, ev := range m.events {
		if ev.Provider != provider {
			kept = append(kept, ev)
		}
	}
	m.events = kept
}

// Reset removes all metrics and buffered events.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics = make(map[string]*Metrics)
	m.events = nil
}

func (m *Monitor) successRateLocked(provider string) float64 {
	pm, ok := m.metrics[provider]
	if !ok || pm.RequestCount == 0 {
		return 0
	}
	return float64(pm.SuccessCount) / float64(pm.RequestCount)
}

func (m *Monitor) shouldAvoidLocked(provider string) bool {
	pm, ok := m.metrics[provider]
	if !ok {
		return false
	}

	if pm.RequestCount >= minRequestsForAvoidance && m.successRateLocked(provider) < avoidanceSuccessRate {
		return true
	}

	if pm.RateLimitHits > 0 && pm.LastFailure != nil &&
		m.nowFunc().Sub(*pm.LastFailure) < rateLimitCooldown {
		return true
	}

	return false
}

// isRateLimitError classifies an error message as a quota/rate-limit
// condition by case-insensitive substring match.
func isRateLimitError(msg string) bool {
	if msg == "" {
		return false
	}
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") || strings.Contains(lower, "quota")
}

func snapshot(pm *Metrics) Metrics {
	out := *pm
	if pm.LastFailure != nil {
		ts := *pm.LastFailure
		out.LastFailure = &ts
	}
	return out
}
