// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package secrets

import (
	"strings"

	"github.com/draftgen-dev/draftgen/internal/config"
	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

const keyringScheme = "keyring://"

// IsKeyringURI reports whether value uses the keyring:// URI scheme.
func IsKeyringURI(value string) bool {
	return strings.HasPrefix(value, keyringScheme)
}

// ParseKeyringURI extracts service and key from a keyring://service/key URI.
// Returns an error if the URI is malformed.
func ParseKeyringURI(uri string) (service, key string, err error) {
	if !IsKeyringURI(uri) {
		return "", "", draftgenerr.Errorf(draftgenerr.CodeSecretInvalidInput, "not a keyring URI: %q", uri)
	}

	path := strings.TrimPrefix(uri, keyringScheme)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", draftgenerr.Errorf(draftgenerr.CodeSecretInvalidInput,
			"invalid keyring URI %q: expected keyring://service/key", uri)
	}

	return parts[0], parts[1], nil
}

// ResolveKeyringURI resolves a single keyring:// URI to its secret value.
// Returns the original value unchanged if it is not a keyring URI.
func ResolveKeyringURI(store Store, value string) (string, error) {
	if !IsKeyringURI(value) {
		return value, nil
	}

	service, key, err := ParseKeyringURI(value)
	if err != nil {
		return "", err
	}

	secret, err := store.Retrieve(service, key)
	if err != nil {
		return "", draftgenerr.Wrapf(err, draftgenerr.CodeSecretResolveFailure,
			"resolving keyring URI %q", value)
	}

	return secret, nil
}

// ResolveProviderKeys resolves every provider api_key in cfg that uses the
// keyring:// scheme, in place. This is the single credential-resolution
// step, performed once before providers are constructed; nothing re-reads
// credential sources per call.
func ResolveProviderKeys(cfg *config.Config, store Store) error {
	for name, pc := range cfg.Providers {
		resolved, err := ResolveKeyringURI(store, pc.APIKey)
		if err != nil {
			return draftgenerr.Wrapf(err, draftgenerr.CodeSecretResolveFailure,
				"resolving api_key for provider %s", name)
		}
		pc.APIKey = resolved
		cfg.Providers[name] = pc
	}
	return nil
}
