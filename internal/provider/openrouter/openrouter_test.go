// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package openrouter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftgen-dev/draftgen/internal/provider"
	"github.com/draftgen-dev/draftgen/internal/provider/openrouter"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*openrouter.Provider)(nil)

func TestOpenRouterProvider_Name(t *testing.T) {
	p, err := openrouter.New(openrouter.Config{APIKey: "test-key-not-real"})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
}

func TestOpenRouterProvider_MissingAPIKey(t *testing.T) {
	_, err := openrouter.New(openrouter.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, draftgenerr.HasCode(err, draftgenerr.CodeProviderRequestInvalid))
}

func TestOpenRouterProvider_Available(t *testing.T) {
	p, err := openrouter.New(openrouter.Config{APIKey: "test-key-not-real"})
	require.NoError(t, err)
	assert.True(t, p.Available(context.Background()))
}

func TestOpenRouterProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "gen-test",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "routed text"}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	p, err := openrouter.New(openrouter.Config{APIKey: "test-key-not-real", BaseURL: srv.URL})
	require.NoError(t, err)

	text, err := p.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "routed text", text)
}

func TestOpenRouterProvider_GenerateRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "quota exceeded for this key"}}`))
	}))
	defer srv.Close()

	p, err := openrouter.New(openrouter.Config{APIKey: "test-key-not-real", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, draftgenerr.IsRateLimited(err))
}
