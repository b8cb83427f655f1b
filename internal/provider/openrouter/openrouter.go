// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package openrouter implements the provider interface against
// OpenRouter's OpenAI-compatible aggregator API, which multiplexes many
// upstream models behind one endpoint.
package openrouter

import (
	"context"
	"errors"
	"net/http"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

const (
	baseURL      = "https://openrouter.ai/api/v1"
	defaultModel = "anthropic/claude-sonnet-4-5"
)

// Config holds OpenRouter provider configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional, useful for testing against a mock server
	Timeout time.Duration
}

// Provider implements provider.Provider using OpenRouter's
// OpenAI-compatible API.
type Provider struct {
	client openaisdk.Client
	config Config
}

var _ provider.Provider = (*Provider)(nil)

// New creates a new OpenRouter provider. Returns an error if the API key is missing.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, draftgenerr.New(draftgenerr.CodeProviderRequestInvalid,
			"openrouter: missing api_key in config", draftgenerr.FieldProvider("openrouter"))
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	base := baseURL
	if cfg.BaseURL != "" {
		base = cfg.BaseURL
	}

	client := openaisdk.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(base),
	)
	return &Provider{client: client, config: cfg}, nil
}

func (p *Provider) Name() string { return "openrouter" }

func (p *Provider) Available(_ context.Context) bool {
	return p.config.APIKey != ""
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	completion, err := p.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(p.config.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", draftgenerr.New(draftgenerr.CodeProviderResponseInvalid,
			"openrouter: response contained no choices", draftgenerr.FieldProvider("openrouter"))
	}

	return completion.Choices[0].Message.Content, nil
}

func (p *Provider) Close() error { return nil }

// classifyError maps SDK errors to the provider error taxonomy,
// distinguishing quota exhaustion from other upstream failures.
func classifyError(err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusTooManyRequests {
			return draftgenerr.Wrapf(err, draftgenerr.CodeProviderRateLimited,
				"openrouter: rate limit exceeded (status %d)", apierr.StatusCode)
		}
		return draftgenerr.Wrapf(err, draftgenerr.CodeProviderUpstreamFailure,
			"openrouter: upstream error (status %d)", apierr.StatusCode)
	}
	return draftgenerr.Wrap(err, draftgenerr.CodeProviderUpstreamFailure,
		"openrouter: request failed", draftgenerr.FieldProvider("openrouter"))
}
