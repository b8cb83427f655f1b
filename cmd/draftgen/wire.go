// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/draftgen-dev/draftgen/internal/config"
	"github.com/draftgen-dev/draftgen/internal/generator"
	"github.com/draftgen-dev/draftgen/internal/monitor"
	"github.com/draftgen-dev/draftgen/internal/provider"
	anthropicprov "github.com/draftgen-dev/draftgen/internal/provider/anthropic"
	googleprov "github.com/draftgen-dev/draftgen/internal/provider/google"
	openaiprov "github.com/draftgen-dev/draftgen/internal/provider/openai"
	openrouterprov "github.com/draftgen-dev/draftgen/internal/provider/openrouter"
	"github.com/draftgen-dev/draftgen/internal/secrets"
	"github.com/draftgen-dev/draftgen/internal/server"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

// Service holds all wired subsystems and manages their lifecycle.
type Service struct {
	Server    *server.Server
	Generator *generator.Generator
	Monitor   *monitor.Monitor
	Providers []provider.Provider
}

// providerFactory builds a provider.Provider from a ProviderConfig.
type providerFactory func(config.ProviderConfig, config.GenerationConfig) (provider.Provider, error)

// builtinProviderFactories maps provider names to their constructors.
// Declared as a variable so tests can inject failing factories.
var builtinProviderFactories = map[string]providerFactory{
	"anthropic": func(pc config.ProviderConfig, gc config.GenerationConfig) (provider.Provider, error) {
		return anthropicprov.New(anthropicprov.Config{
			APIKey:    pc.APIKey,
			Model:     pc.Model,
			BaseURL:   pc.Endpoint,
			MaxTokens: gc.MaxTokens,
			Timeout:   gc.RequestTimeout,
		})
	},
	"openai": func(pc config.ProviderConfig, gc config.GenerationConfig) (provider.Provider, error) {
		return openaiprov.New(openaiprov.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			BaseURL: pc.Endpoint,
			Timeout: gc.RequestTimeout,
		})
	},
	"openrouter": func(pc config.ProviderConfig, gc config.GenerationConfig) (provider.Provider, error) {
		return openrouterprov.New(openrouterprov.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			BaseURL: pc.Endpoint,
			Timeout: gc.RequestTimeout,
		})
	},
	"google": func(pc config.ProviderConfig, gc config.GenerationConfig) (provider.Provider, error) {
		return googleprov.New(googleprov.Config{
			APIKey:  pc.APIKey,
			Model:   pc.Model,
			Timeout: gc.RequestTimeout,
		})
	},
}

// secretStoreFactory creates the secrets.Store used to resolve keyring://
// references in the config. Declared as a variable so tests can substitute
// an in-memory implementation.
var secretStoreFactory = func() secrets.Store {
	return secrets.NewKeyringStore()
}

// buildProviders resolves keyring references, constructs the configured
// providers in failover order, and wraps each one so its calls feed the
// performance monitor. Providers with empty API keys or construction
// failures are logged and skipped — neither is fatal at startup.
func buildProviders(cfg *config.Config, m *monitor.Monitor) ([]provider.Provider, error) {
	if err := secrets.ResolveProviderKeys(cfg, secretStoreFactory()); err != nil {
		return nil, err
	}

	order := cfg.ProviderOrder()
	providers := make([]provider.Provider, 0, len(order))
	for _, name := range order {
		pc := cfg.Providers[name]
		if pc.APIKey == "" {
			slog.Warn("skipping provider with empty API key", "provider", name)
			continue
		}
		factory, ok := builtinProviderFactories[name]
		if !ok {
			slog.Warn("unknown provider in config, skipping", "provider", name)
			continue
		}
		p, err := factory(pc, cfg.Generation)
		if err != nil {
			slog.Warn("failed to create provider", "provider", name, "error", err)
			continue
		}
		providers = append(providers, provider.Instrument(p, m))
		slog.Info("configured provider", "provider", name, "model", pc.Model)
	}
	return providers, nil
}

// WireService creates all subsystems and wires them together.
func WireService(_ context.Context, cfg *config.Config) (*Service, error) {
	m := monitor.New()

	providers, err := buildProviders(cfg, m)
	if err != nil {
		return nil, draftgenerr.Wrapf(err, draftgenerr.CodeCLISetupFailure, "resolving provider credentials")
	}

	gen := generator.New(providers, m)

	// Telemetry registry is optional; the scrape endpoint is only mounted
	// when metrics are enabled.
	var registry *prometheus.Registry
	if cfg.Telemetry.Metrics {
		registry = prometheus.NewRegistry()
		if err := registry.Register(monitor.NewCollector(m)); err != nil {
			return nil, draftgenerr.Errorf(draftgenerr.CodeCLISetupFailure, "registering metrics collector: %w", err)
		}
	}

	srv, err := server.New(server.Config{
		ListenAddr:      cfg.Networking.Listen,
		CORSOrigins:     cfg.Networking.CORSOrigins,
		MetricsRegistry: registry,
	}, gen, m, providers)
	if err != nil {
		return nil, draftgenerr.Errorf(draftgenerr.CodeCLISetupFailure, "creating server: %w", err)
	}

	return &Service{
		Server:    srv,
		Generator: gen,
		Monitor:   m,
		Providers: providers,
	}, nil
}

// Start runs the HTTP server and blocks until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	return s.Server.Start(ctx)
}

// Close releases all provider clients.
func (s *Service) Close() error {
	var errs []error
	for _, p := range s.Providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
