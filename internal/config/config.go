// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

// KnownProviders are the provider names this build can construct, in
// default failover order.
var KnownProviders = []string{"anthropic", "openai", "openrouter", "google"}

// Config is the top-level Draftgen configuration.
type Config struct {
	Networking NetworkingConfig          `mapstructure:"networking"`
	Providers  map[string]ProviderConfig `mapstructure:"providers"`
	Generation GenerationConfig          `mapstructure:"generation"`
	Telemetry  TelemetryConfig           `mapstructure:"telemetry"`
}

// NetworkingConfig controls how Draftgen listens for connections.
type NetworkingConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// ProviderConfig holds credentials and model selection for one backend.
// APIKey may be a keyring://service/key URI resolved at load time.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// GenerationConfig controls provider ordering and request shaping.
type GenerationConfig struct {
	Order          []string      `mapstructure:"order"`
	Tone           string        `mapstructure:"tone"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxTokens      int           `mapstructure:"max_tokens"`
}

// TelemetryConfig toggles the Prometheus scrape endpoint.
type TelemetryConfig struct {
	Metrics bool `mapstructure:"metrics"`
}

// SetDefaults installs default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("networking.listen", "127.0.0.1:18590")
	v.SetDefault("generation.order", KnownProviders)
	v.SetDefault("generation.tone", "professional")
	v.SetDefault("generation.request_timeout", 60*time.Second)
	v.SetDefault("generation.max_tokens", 4096)
	v.SetDefault("telemetry.metrics", true)
}

// SetupEnv binds environment variables with the DRAFTGEN_ prefix so
// e.g. DRAFTGEN_PROVIDERS_OPENAI_API_KEY overrides providers.openai.api_key.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("DRAFTGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper unmarshals and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, draftgenerr.Wrapf(err, draftgenerr.CodeConfigParseInvalidFormat,
			"unmarshalling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, draftgenerr.Wrapf(err, draftgenerr.CodeConfigLoadReadFailure,
				"reading config %s", path)
		}
	}

	return FromViper(v)
}

// Validate checks listen address, tone, and provider ordering.
func (c *Config) Validate() error {
	host, port, err := net.SplitHostPort(c.Networking.Listen)
	if err != nil {
		return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
			"networking.listen %q is not host:port: %w", c.Networking.Listen, err)
	}
	if host == "" {
		return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
			"networking.listen %q has no host", c.Networking.Listen)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
			"networking.listen %q has invalid port", c.Networking.Listen)
	}

	switch c.Generation.Tone {
	case "professional", "casual", "technical":
	default:
		return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
			"generation.tone %q must be professional, casual, or technical", c.Generation.Tone)
	}

	if c.Generation.RequestTimeout <= 0 {
		return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
			"generation.request_timeout must be positive, got %s", c.Generation.RequestTimeout)
	}

	for _, name := range c.Generation.Order {
		if !isKnownProvider(name) {
			return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
				"generation.order contains unknown provider %q", name)
		}
	}

	for name := range c.Providers {
		if !isKnownProvider(name) {
			return draftgenerr.Errorf(draftgenerr.CodeConfigValidateInvalidValue,
				"providers contains unknown provider %q", name)
		}
	}

	return nil
}

// ProviderOrder returns the configured failover order restricted to
// providers that actually have configuration.
func (c *Config) ProviderOrder() []string {
	var out []string
	for _, name := range c.Generation.Order {
		if _, ok := c.Providers[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func isKnownProvider(name string) bool {
	for _, known := range KnownProviders {
		if name == known {
			return true
		}
	}
	return false
}
