// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/draftgen-dev/draftgen/internal/config"
	"github.com/draftgen-dev/draftgen/internal/secrets"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostics",
		Long:  "Check binary health, provider credentials, and whether a draftgen service is reachable.",
		RunE:  runDoctor,
	}

	cmd.Flags().String("address", "127.0.0.1:18590", "service address to check")

	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	addr, _ := cmd.Flags().GetString("address")

	cfg, cfgErr := config.FromViper(viper.GetViper())

	checks := []struct {
		name string
		fn   func() string
	}{
		{"Binary", checkBinary},
		{"Platform", checkPlatform},
		{"Config", func() string { return checkConfig(cfgErr) }},
		{"Providers", func() string { return checkProviders(cfg) }},
		{"Service", func() string { return checkService(addr) }},
	}

	for _, c := range checks {
		if _, err := fmt.Fprintf(w, "%-12s %s\n", c.name+":", c.fn()); err != nil {
			return err
		}
	}

	return nil
}

func checkBinary() string {
	return fmt.Sprintf("draftgen %s (%s/%s)", version, runtime.GOOS, runtime.GOARCH)
}

func checkPlatform() string {
	return fmt.Sprintf("%s/%s, Go %s", runtime.GOOS, runtime.GOARCH, runtime.Version())
}

func checkConfig(cfgErr error) string {
	if cfgErr != nil {
		return fmt.Sprintf("invalid: %s", cfgErr)
	}
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		return fmt.Sprintf("loaded from %s", cfgFile)
	}
	return "using defaults (no config file found)"
}

// checkProviders reports each configured provider and whether its API key
// is set directly or resolves through the OS keyring.
func checkProviders(cfg *config.Config) string {
	if cfg == nil || len(cfg.Providers) == 0 {
		return "none configured"
	}

	store := secretStoreFactory()
	var parts []string
	for _, name := range cfg.ProviderOrder() {
		pc := cfg.Providers[name]
		switch {
		case pc.APIKey == "":
			parts = append(parts, name+" (no api key)")
		case secrets.IsKeyringURI(pc.APIKey):
			if _, err := secrets.ResolveKeyringURI(store, pc.APIKey); err != nil {
				parts = append(parts, name+" (keyring lookup failed)")
			} else {
				parts = append(parts, name+" (keyring)")
			}
		default:
			parts = append(parts, name+" (api key set)")
		}
	}
	if len(parts) == 0 {
		return "configured but not in generation.order"
	}
	return strings.Join(parts, ", ")
}

func checkService(addr string) string {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/health")
	if err != nil {
		return fmt.Sprintf("not running at %s (run 'draftgen start')", addr)
	}
	defer resp.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Sprintf("unexpected response from %s", addr)
	}
	return fmt.Sprintf("%s at %s", body.Status, addr)
}
