// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package provider defines the text-generation backend abstraction and
// the instrumentation applied uniformly to every backend.
package provider

import (
	"context"
)

// Provider is one interchangeable remote text-generation backend.
// Implementations are constructed with a resolved credential and perform
// no network I/O until Generate is called.
type Provider interface {
	// Name returns the stable identifier used as the metrics key.
	Name() string

	// Available reports whether the provider is usable right now.
	// It must not perform network I/O.
	Available(ctx context.Context) bool

	// Generate issues one remote completion call and returns the raw
	// generated text. Rate-limit conditions carry
	// errors.CodeProviderRateLimited; any other remote failure carries
	// errors.CodeProviderUpstreamFailure with the upstream status where
	// available.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Status describes one configured provider for operator-facing surfaces.
type Status struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}
