// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package generator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/draftgen-dev/draftgen/internal/monitor"
	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

// Generator drives README generation with metrics-informed failover
// across an ordered list of providers. Provider attempts within one call
// are strictly sequential; concurrent Generate calls from multiple
// callers share the injected monitor.
type Generator struct {
	providers []provider.Provider
	monitor   *monitor.Monitor
	nowFunc   func() time.Time // for testing
}

// New creates a Generator over the given ordered provider list. An empty
// list is a valid construction state; Generate then fails with the
// configuration error.
func New(providers []provider.Provider, m *monitor.Monitor) *Generator {
	return &Generator{
		providers: providers,
		monitor:   m,
		nowFunc:   time.Now,
	}
}

// SetNowFunc overrides the time source (for testing).
func (g *Generator) SetNowFunc(fn func() time.Time) {
	g.nowFunc = fn
}

// Providers returns the configured providers in failover order.
func (g *Generator) Providers() []provider.Provider {
	return g.providers
}

// Generate builds the prompt, walks the provider list starting from the
// monitor's current best performer, and returns the first successful
// post-processed result. Each configured provider is attempted at most
// once per call; a health skip consumes a slot so the loop always
// terminates.
func (g *Generator) Generate(ctx context.Context, meta RepoMetadata, opts Options) (*Result, error) {
	if len(g.providers) == 0 {
		return nil, draftgenerr.New(draftgenerr.CodeGeneratorNoProviders,
			"no providers configured")
	}

	prompt := BuildPrompt(meta, opts)

	cursor := g.startIndex()
	var lastErr error

	for attempt := range g.providers {
		p := g.providers[cursor]
		cursor = (cursor + 1) % len(g.providers)

		if g.monitor.ShouldAvoid(p.Name()) {
			slog.Debug("skipping unhealthy provider",
				"provider", p.Name(),
				"attempt", attempt+1,
			)
			continue
		}

		start := g.nowFunc()
		text, err := p.Generate(ctx, prompt)
		elapsed := g.nowFunc().Sub(start)

		if err != nil {
			lastErr = err
			slog.Warn("provider attempt failed",
				"provider", p.Name(),
				"attempt", attempt+1,
				"duration", elapsed,
				"rate_limited", draftgenerr.IsRateLimited(err),
				"error", err,
			)
			continue
		}

		slog.Info("generation succeeded",
			"provider", p.Name(),
			"attempt", attempt+1,
			"duration", elapsed,
		)

		return &Result{
			ID:          uuid.NewString(),
			Text:        PostProcess(text),
			Provider:    p.Name(),
			GeneratedAt: g.nowFunc(),
		}, nil
	}

	if lastErr != nil {
		// Not a Wrap: oops surfaces the innermost code of a wrapped chain,
		// which would report the last provider's code instead of exhaustion.
		return nil, draftgenerr.Errorf(draftgenerr.CodeGeneratorAllFailed,
			"all %d providers failed, last error: %s", len(g.providers), lastErr.Error())
	}

	// Every slot was a health skip; nothing was actually attempted.
	return nil, draftgenerr.New(draftgenerr.CodeGeneratorNoneAvailable,
		"no available provider: all configured providers are currently avoided")
}

// startIndex returns the cursor's starting position: the configured first
// provider, overridden by the monitor's best performer when that provider
// is configured.
func (g *Generator) startIndex() int {
	best, ok := g.monitor.BestProvider()
	if !ok {
		return 0
	}
	for i, p := range g.providers {
		if p.Name() == best {
			return i
		}
	}
	return 0
}
