// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package openai_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftgen-dev/draftgen/internal/provider"
	"github.com/draftgen-dev/draftgen/internal/provider/openai"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*openai.Provider)(nil)

func TestOpenAIProvider_Name(t *testing.T) {
	p := mustNewProvider(t)
	assert.Equal(t, "openai", p.Name())
}

func TestOpenAIProvider_MissingAPIKey(t *testing.T) {
	_, err := openai.New(openai.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, draftgenerr.HasCode(err, draftgenerr.CodeProviderRequestInvalid))
}

func TestOpenAIProvider_Available(t *testing.T) {
	p := mustNewProvider(t)
	assert.True(t, p.Available(context.Background()))
}

func TestOpenAIProvider_Close(t *testing.T) {
	p := mustNewProvider(t)
	assert.NoError(t, p.Close())
}

func TestOpenAIProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "# Hello"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	p, err := openai.New(openai.Config{APIKey: "test-key-not-real", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := p.Generate(context.Background(), "write a readme")
	require.NoError(t, err)
	assert.Equal(t, "# Hello", text)
}

func TestOpenAIProvider_GenerateRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "rate_limit_error"}}`))
	}))
	defer srv.Close()

	p, err := openai.New(openai.Config{APIKey: "test-key-not-real", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, draftgenerr.IsRateLimited(err), "429 must map to the rate-limited code")
	assert.Contains(t, err.Error(), "rate limit")
}

func TestOpenAIProvider_GenerateUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "server melted"}}`))
	}))
	defer srv.Close()

	p, err := openai.New(openai.Config{APIKey: "test-key-not-real", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, draftgenerr.IsUpstreamFailure(err))
	assert.False(t, draftgenerr.IsRateLimited(err))
}

func TestOpenAIProvider_GenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-test", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	p, err := openai.New(openai.Config{APIKey: "test-key-not-real", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, draftgenerr.HasCode(err, draftgenerr.CodeProviderResponseInvalid))
}

// mustNewProvider creates a provider with a dummy API key for unit tests.
func mustNewProvider(t *testing.T) *openai.Provider {
	t.Helper()
	p, err := openai.New(openai.Config{
		APIKey: "test-key-not-real",
	})
	require.NoError(t, err)
	return p
}
