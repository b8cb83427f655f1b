// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package anthropic implements the provider interface against the
// Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

const defaultModel = "claude-sonnet-4-5"

// Config holds Anthropic provider configuration.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string // optional, useful for testing against a mock server
	MaxTokens int
	Timeout   time.Duration
}

// Provider implements provider.Provider using the Anthropic Messages API.
type Provider struct {
	client anthropicsdk.Client
	config Config
}

var _ provider.Provider = (*Provider)(nil)

// New creates a new Anthropic provider. Returns an error if the API key is
// missing. No network I/O happens here.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, draftgenerr.New(draftgenerr.CodeProviderRequestInvalid,
			"anthropic: missing api_key in config", draftgenerr.FieldProvider("anthropic"))
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropicsdk.NewClient(opts...)
	return &Provider{client: client, config: cfg}, nil
}

func (p *Provider) Name() string { return "anthropic" }

func (p *Provider) Available(_ context.Context) bool {
	return p.config.APIKey != ""
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	msg, err := p.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(p.config.Model),
		MaxTokens: int64(p.config.MaxTokens),
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", draftgenerr.New(draftgenerr.CodeProviderResponseInvalid,
			"anthropic: response contained no text content", draftgenerr.FieldProvider("anthropic"))
	}

	return sb.String(), nil
}

func (p *Provider) Close() error { return nil }

// classifyError maps SDK errors to the provider error taxonomy,
// distinguishing quota exhaustion from other upstream failures.
func classifyError(err error) error {
	var apierr *anthropicsdk.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusTooManyRequests {
			return draftgenerr.Wrapf(err, draftgenerr.CodeProviderRateLimited,
				"anthropic: rate limit exceeded (status %d)", apierr.StatusCode)
		}
		return draftgenerr.Wrapf(err, draftgenerr.CodeProviderUpstreamFailure,
			"anthropic: upstream error (status %d)", apierr.StatusCode)
	}
	return draftgenerr.Wrap(err, draftgenerr.CodeProviderUpstreamFailure,
		"anthropic: request failed", draftgenerr.FieldProvider("anthropic"))
}
