// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package secrets

import (
	"errors"

	"github.com/zalando/go-keyring"

	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

// KeyringStore implements Store using the OS keyring via zalando/go-keyring.
// On macOS it uses Keychain, on Linux secret-service (D-Bus), and on Windows
// the Credential Manager.
type KeyringStore struct{}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore returns a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func (s *KeyringStore) Store(service, key, value string) error {
	if err := validate(service, key); err != nil {
		return err
	}

	if err := keyring.Set(service, key, value); err != nil {
		return draftgenerr.Wrapf(err, draftgenerr.CodeSecretStoreFailure, "storing secret %s/%s", service, key)
	}
	return nil
}

func (s *KeyringStore) Retrieve(service, key string) (string, error) {
	if err := validate(service, key); err != nil {
		return "", err
	}

	val, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", draftgenerr.Errorf(draftgenerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
		}
		return "", draftgenerr.Wrapf(err, draftgenerr.CodeSecretStoreFailure, "retrieving secret %s/%s", service, key)
	}
	return val, nil
}

func (s *KeyringStore) Delete(service, key string) error {
	if err := validate(service, key); err != nil {
		return err
	}

	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return draftgenerr.Errorf(draftgenerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
		}
		return draftgenerr.Wrapf(err, draftgenerr.CodeSecretDeleteFailure, "deleting secret %s/%s", service, key)
	}
	return nil
}

func validate(service, key string) error {
	if service == "" {
		return draftgenerr.New(draftgenerr.CodeSecretInvalidInput, "secret store: service must not be empty")
	}
	if key == "" {
		return draftgenerr.New(draftgenerr.CodeSecretInvalidInput, "secret store: key must not be empty")
	}
	return nil
}
