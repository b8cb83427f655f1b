// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftgen Contributors

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	draftgenerr "github.com/draftgen-dev/draftgen/pkg/errors"
)

// serviceName is the keyring service name under which draftgen stores secrets.
const serviceName = "draftgen"

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets stored in the OS keyring",
		Long:  "Store and delete API keys in the operating system keyring, referenced from config as keyring://draftgen/<name>.",
	}

	cmd.AddCommand(
		newSecretSetCmd(),
		newSecretDeleteCmd(),
	)

	return cmd
}

func newSecretSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret, reading its value from stdin",
		Args:  cobra.ExactArgs(1),
		RunE:  runSecretSet,
	}
}

func newSecretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a secret by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runSecretDelete,
	}
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Read the value from stdin so it never appears in shell history.
	reader := bufio.NewReader(cmd.InOrStdin())
	value, err := reader.ReadString('\n')
	if err != nil && value == "" {
		return draftgenerr.Errorf(draftgenerr.CodeCLIInputInvalid, "reading secret value: %w", err)
	}
	value = strings.TrimRight(value, "\r\n")
	if value == "" {
		return draftgenerr.New(draftgenerr.CodeCLIInputInvalid, "secret value is empty")
	}

	store := secretStoreFactory()
	if err := store.Store(serviceName, name, value); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"Secret stored. Reference it in config as keyring://%s/%s\n", serviceName, name)
	return err
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	store := secretStoreFactory()
	if err := store.Delete(serviceName, name); err != nil {
		if draftgenerr.HasCode(err, draftgenerr.CodeSecretNotFound) {
			return draftgenerr.Errorf(draftgenerr.CodeSecretNotFound, "secret %q not found", name)
		}
		return err
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Secret %q deleted.\n", name)
	return err
}
