// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/draftgen-dev/draftgen/internal/config"
	"github.com/draftgen-dev/draftgen/internal/generator"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <metadata.json>",
		Short: "Generate a README from a repository metadata file",
		Long:  "Read repository metadata from a JSON file, generate a README draft with the configured providers, and print it to stdout.",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}

	cmd.Flags().StringP("output", "o", "", "write the README to a file instead of stdout")
	cmd.Flags().String("tone", "", "override writing tone (professional, casual, technical)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return draftgenerr.Errorf(draftgenerr.CodeCLIInputInvalid, "reading metadata file: %w", err)
	}
	var meta generator.RepoMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return draftgenerr.Errorf(draftgenerr.CodeCLIInputInvalid, "parsing metadata file: %w", err)
	}

	opts := generator.DefaultOptions()
	opts.Tone = generator.Tone(cfg.Generation.Tone)
	if tone, _ := cmd.Flags().GetString("tone"); tone != "" {
		opts.Tone = generator.Tone(tone)
	}
	if !opts.Tone.Valid() {
		return draftgenerr.Errorf(draftgenerr.CodeCLIInputInvalid, "invalid tone %q", opts.Tone)
	}

	svc, err := WireService(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			slog.Warn("closing providers", "error", cerr)
		}
	}()

	res, err := svc.Generator.Generate(cmd.Context(), meta, opts)
	if err != nil {
		return err
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		if err := os.WriteFile(outPath, []byte(res.Text+"\n"), 0o644); err != nil {
			return draftgenerr.Errorf(draftgenerr.CodeCLIInputInvalid, "writing output: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "README written to %s (provider: %s)\n", outPath, res.Provider)
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
	return err
}
