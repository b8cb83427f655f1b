// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/draftgen-dev/draftgen/internal/generator"
	"github.com/draftgen-dev/draftgen/internal/monitor"
	"github.com/draftgen-dev/draftgen/internal/server"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

func main() {
	spec, err := generateSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	outPath := "api/openapi/spec.json"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output dir: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, spec, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OpenAPI spec written to %s\n", outPath)
}

// generateSpec creates a server with all routes registered and extracts the
// OpenAPI spec that huma generates from the Go type annotations.
func generateSpec() ([]byte, error) {
	// A no-op generator stub is enough to register every route for schema
	// discovery. Handlers are never invoked during spec generation.
	srv, err := server.New(server.Config{
		ListenAddr: "127.0.0.1:0",
	}, &stubGenerator{}, monitor.New(), nil)
	if err != nil {
		return nil, draftgenerr.Errorf(draftgenerr.CodeCLISetupFailure, "creating server: %w", err)
	}

	return json.MarshalIndent(srv.API().OpenAPI(), "", "  ")
}

type stubGenerator struct{}

func (s *stubGenerator) Generate(context.Context, generator.RepoMetadata, generator.Options) (*generator.Result, error) {
	return nil, nil
}
