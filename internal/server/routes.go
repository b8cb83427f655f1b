// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/draftgen-dev/draftgen/internal/generator"
	"github.com/draftgen-dev/draftgen/internal/monitor"
	"github.com/draftgen-dev/draftgen/internal/provider"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "generate-readme",
		Method:      http.MethodPost,
		Path:        "/api/v1/readme",
		Summary:     "Generate a README from repository metadata",
		Tags:        []string{"readme"},
	}, s.handleGenerateReadme)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-providers",
		Method:      http.MethodGet,
		Path:        "/api/v1/providers",
		Summary:     "List configured providers",
		Tags:        []string{"providers"},
	}, s.handleListProviders)

	huma.Register(s.api, huma.Operation{
		OperationID: "provider-metrics",
		Method:      http.MethodGet,
		Path:        "/api/v1/providers/metrics",
		Summary:     "Rolling performance metrics for all providers",
		Tags:        []string{"providers"},
	}, s.handleProviderMetrics)

	huma.Register(s.api, huma.Operation{
		OperationID:   "reset-provider-metrics",
		Method:        http.MethodDelete,
		Path:          "/api/v1/providers/{name}/metrics",
		Summary:       "Reset one provider's metrics",
		Tags:          []string{"providers"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleResetProviderMetrics)

	huma.Register(s.api, huma.Operation{
		OperationID:   "reset-all-metrics",
		Method:        http.MethodDelete,
		Path:          "/api/v1/providers/metrics",
		Summary:       "Reset all provider metrics",
		Tags:          []string{"providers"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleResetAllMetrics)
}

// --- Request/Response types for huma ---

type generateReadmeInput struct {
	Body struct {
		Metadata generator.RepoMetadata `json:"metadata"`
		Options  *generator.Options     `json:"options,omitempty"`
	}
}

type generateReadmeOutput struct {
	Body generator.Result
}

type listProvidersOutput struct {
	Body struct {
		Providers []provider.Status `json:"providers"`
	}
}

type providerMetricsOutput struct {
	Body struct {
		Metrics []monitor.Metrics `json:"metrics"`
	}
}

type resetProviderMetricsInput struct {
	Name string `path:"name"`
}

// --- Handlers ---

func (s *Server) handleGenerateReadme(ctx context.Context, in *generateReadmeInput) (*generateReadmeOutput, error) {
	if strings.TrimSpace(in.Body.Metadata.Name) == "" && strings.TrimSpace(in.Body.Metadata.FullName) == "" {
		return nil, huma.Error400BadRequest("metadata.name or metadata.full_name is required")
	}

	opts := generator.DefaultOptions()
	if in.Body.Options != nil {
		opts = *in.Body.Options
		if opts.Tone == "" {
			opts.Tone = generator.ToneProfessional
		}
	}

	res, err := s.generator.Generate(ctx, in.Body.Metadata, opts)
	if err != nil {
		return nil, huma.NewError(draftgenerr.HTTPStatus(err), err.Error())
	}

	return &generateReadmeOutput{Body: *res}, nil
}

func (s *Server) handleListProviders(ctx context.Context, _ *struct{}) (*listProvidersOutput, error) {
	out := &listProvidersOutput{}
	out.Body.Providers = make([]provider.Status, 0, len(s.providers))
	for _, p := range s.providers {
		out.Body.Providers = append(out.Body.Providers, provider.Status{
			Name:      p.Name(),
			Available: p.Available(ctx) && !s.monitor.ShouldAvoid(p.Name()),
		})
	}
	return out, nil
}

func (s *Server) handleProviderMetrics(_ context.Context, _ *struct{}) (*providerMetricsOutput, error) {
	out := &providerMetricsOutput{}
	out.Body.Metrics = s.monitor.AllMetrics()
	return out, nil
}

func (s *Server) handleResetProviderMetrics(_ context.Context, in *resetProviderMetricsInput) (*struct{}, error) {
	s.monitor.ResetProvider(in.Name)
	return nil, nil
}

func (s *Server) handleResetAllMetrics(_ context.Context, _ *struct{}) (*struct{}, error) {
	s.monitor.Reset()
	return nil, nil
}
