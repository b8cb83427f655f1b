// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/draftgen-dev/draftgen/internal/monitor"
	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scriptable Provider for orchestration tests.
type fakeProvider struct {
	name      string
	text      string
	err       error
	available bool
	calls     int
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) Available(_ context.Context) bool   { return f.available }
func (f *fakeProvider) Close() error                       { return nil }
func (f *fakeProvider) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestInstrument_RecordsSuccess(t *testing.T) {
	m := monitor.New()
	fake := &fakeProvider{name: "fake", text: "hello", available: true}

	p := provider.Instrument(fake, m)

	base := time.Now()
	ticks := []time.Time{base, base.Add(150 * time.Millisecond)}
	p.SetNowFunc(func() time.Time {
		next := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return next
	})

	text, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	pm, ok := m.ProviderMetrics("fake")
	require.True(t, ok)
	assert.Equal(t, int64(1), pm.RequestCount)
	assert.Equal(t, int64(1), pm.SuccessCount)
	assert.Equal(t, 150*time.Millisecond, pm.AvgResponseTime)
}

func TestInstrument_RecordsFailureWithErrorText(t *testing.T) {
	m := monitor.New()
	fake := &fakeProvider{
		name:      "fake",
		available: true,
		err:       draftgenerr.New(draftgenerr.CodeProviderRateLimited, "upstream rate limit hit"),
	}

	p := provider.Instrument(fake, m)

	_, err := p.Generate(context.Background(), "prompt")
	require.Error(t, err)

	pm, ok := m.ProviderMetrics("fake")
	require.True(t, ok)
	assert.Equal(t, int64(1), pm.FailureCount)
	assert.Equal(t, int64(1), pm.RateLimitHits, "rate limit substring must be classified")
	require.NotNil(t, pm.LastFailure)

	events := m.RecentEvents()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Err, "rate limit")
}

func TestInstrument_DelegatesIdentity(t *testing.T) {
	fake := &fakeProvider{name: "fake", available: true}
	p := provider.Instrument(fake, monitor.New())

	assert.Equal(t, "fake", p.Name())
	assert.True(t, p.Available(context.Background()))
	assert.Same(t, fake, p.Unwrap())
	assert.NoError(t, p.Close())
}
