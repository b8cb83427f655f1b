// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package google implements the provider interface against the Google
// Gemini API.
package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

const defaultModel = "gemini-2.5-flash"

// Config holds Google provider configuration.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Provider implements provider.Provider using the Google Gemini API.
type Provider struct {
	client *genai.Client
	config Config
}

var _ provider.Provider = (*Provider)(nil)

// New creates a new Google provider. Returns an error if the API key is
// missing. The genai client is constructed eagerly but performs no
// network I/O until the first call.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, draftgenerr.New(draftgenerr.CodeProviderRequestInvalid,
			"google: missing api_key in config", draftgenerr.FieldProvider("google"))
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, draftgenerr.Wrapf(err, draftgenerr.CodeProviderUpstreamFailure,
			"google: creating client")
	}

	return &Provider{client: client, config: cfg}, nil
}

func (p *Provider) Name() string { return "google" }

func (p *Provider) Available(_ context.Context) bool {
	return p.config.APIKey != ""
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyError(err)
	}

	text := resp.Text()
	if text == "" {
		return "", draftgenerr.New(draftgenerr.CodeProviderResponseInvalid,
			"google: response contained no text", draftgenerr.FieldProvider("google"))
	}

	return text, nil
}

func (p *Provider) Close() error { return nil }

// classifyError maps genai API errors to the provider error taxonomy,
// distinguishing quota exhaustion from other upstream failures.
func classifyError(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		if apierr.Code == http.StatusTooManyRequests {
			return draftgenerr.Wrapf(err, draftgenerr.CodeProviderRateLimited,
				"google: rate limit exceeded (status %d)", apierr.Code)
		}
		return draftgenerr.Wrapf(err, draftgenerr.CodeProviderUpstreamFailure,
			"google: upstream error (status %d)", apierr.Code)
	}
	return draftgenerr.Wrap(err, draftgenerr.CodeProviderUpstreamFailure,
		"google: request failed", draftgenerr.FieldProvider("google"))
}
