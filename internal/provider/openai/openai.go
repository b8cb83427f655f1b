// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

// Package openai implements the provider interface against the OpenAI
// Chat Completions API.
package openai

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

const defaultModel = "gpt-4.1"

// Config holds OpenAI provider configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional, useful for testing against a mock server
	Timeout time.Duration
}

// Provider implements provider.Provider using the OpenAI Chat Completions API.
type Provider struct {
	client openaisdk.Client
	config Config
}

var _ provider.Provider = (*Provider)(nil)

// New creates a new OpenAI provider. Returns an error if the API key is missing.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, draftgenerr.New(draftgenerr.CodeProviderRequestInvalid,
			"openai: missing api_key in config", draftgenerr.FieldProvider("openai"))
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openaisdk.NewClient(opts...)
	return &Provider{client: client, config: cfg}, nil
}

func (p *Provider) Name() string { return "openai" }

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
		return "", classifyError("openai", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", draftgenerr.New(draftgenerr.CodeProviderResponseInvalid,
			"openai: response contained no choices", draftgenerr.FieldProvider("openai"))
	}

	return completion.Choices[0].Message.Content, nil
}

func (p *Provider) Close() error { return nil }

// classifyError maps SDK errors to the provider error taxonomy,
// distinguishing quota exhaustion from other upstream failures.
func classifyError(name string, err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusTooManyRequests {
			return draftgenerr.Wrapf(err, draftgenerr.CodeProviderRateLimited,
				"%s: rate limit exceeded (status %d)", name, apierr.StatusCode)
		}
		return draftgenerr.Wrapf(err, draftgenerr.CodeProviderUpstreamFailure,
			"%s: upstream error (status %d)", name, apierr.StatusCode)
	}
	return draftgenerr.Wrap(err, draftgenerr.CodeProviderUpstreamFailure,
		name+": request failed", draftgenerr.FieldProvider(name))
}
