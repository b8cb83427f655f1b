// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package provider

import (
	"context"
	"time"

	"github.com/draftgen-dev/draftgen/internal/monitor"
)

// Instrumented wraps a Provider with the timing probe that reports every
// Generate outcome to the monitor. The probe lives here, once, so no
// backend variant duplicates it.
type Instrumented struct {
	inner   Provider
	monitor *monitor.Monitor
	nowFunc func() time.Time // for testing
}

var _ Provider = (*Instrumented)(nil)

// Instrument wraps p so that every Generate call records a monitor event.
func Instrument(p Provider, m *monitor.Monitor) *Instrumented {
	return &Instrumented{
		inner:   p,
		monitor: m,
		nowFunc: time.Now,
	}
}

// SetNowFunc overrides the time source (for testing).
func (i *Instrumented) SetNowFunc(fn func() time.Time) {
	i.nowFunc = fn
}

// Unwrap returns the wrapped provider.
func (i *Instrumented) Unwrap() Provider {
	return i.inner
}

func (i *Instrumented) Name() string { return i.inner.Name() }

func (i *Instrumented) Available(ctx context.Context) bool {
	return i.inner.Available(ctx)
}

func (i *Instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := i.nowFunc()
	text, err := i.inner.Generate(ctx, prompt)
	elapsed := i.nowFunc().Sub(start)

	ev := monitor.Event{
		Provider:  i.inner.Name(),
		Success:   err == nil,
		Duration:  elapsed,
		Timestamp: start,
	}
	if err != nil {
		ev.Err = err.Error()
	}
	i.monitor.Record(ev)

	return text, err
}

func (i *Instrumented) Close() error { return i.inner.Close() }
