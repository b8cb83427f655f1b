// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CarriesCodeAndFields(t *testing.T) {
	err := draftgenerr.New(
		draftgenerr.CodeProviderUpstreamFailure,
		"upstream exploded",
		draftgenerr.FieldProvider("openai"),
	)
	require.Error(t, err)

	assert.Equal(t, draftgenerr.CodeProviderUpstreamFailure, draftgenerr.CodeOf(err))
	assert.Equal(t, "openai", draftgenerr.FieldsOf(err)["provider"])
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.NoError(t, draftgenerr.Wrap(nil, draftgenerr.CodeServerInternalFailure, "ignored"))
	assert.NoError(t, draftgenerr.Wrapf(nil, draftgenerr.CodeServerInternalFailure, "ignored"))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := draftgenerr.Wrap(cause, draftgenerr.CodeGeneratorAllFailed, "every provider failed")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, draftgenerr.CodeGeneratorAllFailed, draftgenerr.CodeOf(err))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, draftgenerr.Code(""), draftgenerr.CodeOf(stderrors.New("plain")))
	assert.Equal(t, draftgenerr.Code(""), draftgenerr.CodeOf(nil))
}

func TestHasCode(t *testing.T) {
	err := draftgenerr.New(draftgenerr.CodeProviderRateLimited, "quota exhausted")

	assert.True(t, draftgenerr.HasCode(err, draftgenerr.CodeProviderRateLimited))
	assert.False(t, draftgenerr.HasCode(err, draftgenerr.CodeProviderUpstreamFailure))
	assert.False(t, draftgenerr.HasCode(nil, draftgenerr.CodeProviderRateLimited))
}

func TestHasCode_WrappedCodedError(t *testing.T) {
	// oops resolves Code() to the innermost code of a wrapped chain.
	// Callers that must surface their own code build a fresh error
	// instead of wrapping an already-coded one.
	err := draftgenerr.Wrap(
		draftgenerr.New(draftgenerr.CodeProviderRateLimited, "inner"),
		draftgenerr.CodeGeneratorAllFailed, "outer",
	)

	assert.True(t, draftgenerr.HasCode(err, draftgenerr.CodeProviderRateLimited))
	assert.False(t, draftgenerr.HasCode(err, draftgenerr.CodeGeneratorAllFailed))
}

func TestReasonPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{
			name:  "rate limited",
			err:   draftgenerr.New(draftgenerr.CodeProviderRateLimited, "429"),
			check: draftgenerr.IsRateLimited,
			want:  true,
		},
		{
			name:  "upstream failure",
			err:   draftgenerr.New(draftgenerr.CodeProviderUpstreamFailure, "502"),
			check: draftgenerr.IsUpstreamFailure,
			want:  true,
		},
		{
			name:  "rate limited is not a generic upstream failure",
			err:   draftgenerr.New(draftgenerr.CodeProviderRateLimited, "429"),
			check: draftgenerr.IsUpstreamFailure,
			want:  false,
		},
		{
			name:  "exhaustion all_failed",
			err:   draftgenerr.New(draftgenerr.CodeGeneratorAllFailed, "nothing left"),
			check: draftgenerr.IsExhausted,
			want:  true,
		},
		{
			name:  "exhaustion none_available",
			err:   draftgenerr.New(draftgenerr.CodeGeneratorNoneAvailable, "all skipped"),
			check: draftgenerr.IsExhausted,
			want:  true,
		},
		{
			name:  "invalid input",
			err:   draftgenerr.New(draftgenerr.CodeGeneratorInputInvalid, "bad request"),
			check: draftgenerr.IsInvalidInput,
			want:  true,
		},
		{
			name:  "not found",
			err:   draftgenerr.New(draftgenerr.CodeSecretNotFound, "missing"),
			check: draftgenerr.IsNotFound,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "not found",
			err:  draftgenerr.New(draftgenerr.CodeServerEntityNotFound, "gone"),
			want: http.StatusNotFound,
		},
		{
			name: "invalid input",
			err:  draftgenerr.New(draftgenerr.CodeGeneratorInputInvalid, "bad"),
			want: http.StatusBadRequest,
		},
		{
			name: "rate limited",
			err:  draftgenerr.New(draftgenerr.CodeProviderRateLimited, "429"),
			want: http.StatusTooManyRequests,
		},
		{
			name: "no providers configured",
			err:  draftgenerr.New(draftgenerr.CodeGeneratorNoProviders, "none"),
			want: http.StatusServiceUnavailable,
		},
		{
			name: "all providers failed",
			err:  draftgenerr.New(draftgenerr.CodeGeneratorAllFailed, "exhausted"),
			want: http.StatusBadGateway,
		},
		{
			name: "upstream failure",
			err:  draftgenerr.New(draftgenerr.CodeProviderUpstreamFailure, "502"),
			want: http.StatusBadGateway,
		},
		{
			name: "unknown",
			err:  stderrors.New("plain"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, draftgenerr.HTTPStatus(tt.err))
		})
	}
}

func TestJoin(t *testing.T) {
	a := stderrors.New("a")
	b := stderrors.New("b")

	err := draftgenerr.Join(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}
