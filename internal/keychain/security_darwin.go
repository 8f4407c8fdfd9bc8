// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"mochi/shell/internal/logging"
	"mochi/shell/internal/source"
)

const notFoundMarker = "could not be found"

// securityBackend implements keychain operations using the macOS security command.
type securityBackend struct {
	log *logging.Dev
}

// newSecurityBackend creates a new macOS security command backend.
func newSecurityBackend() (*securityBackend, error) {
	if _, err := exec.LookPath("security"); err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{log: logging.FromEnv(false)}, nil
}

// Set stores a key-value pair in the macOS keychain.
func (s *securityBackend) Set(key, value string) error {
	s.log.Printf("Keychain", "set %q (%d bytes)", key, len(value))

	cmd := exec.Command("security", "add-generic-password",
		"-a", ServiceName, // account name
		"-s", key, // service name
		"-w", value, // password
		"-U", // update if exists
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		err = fmt.Errorf("failed to store '%s' in keychain: %s: %w", key, strings.TrimSpace(stderr.String()), err)
		s.log.Error("Keychain", "set", err)
		return err
	}
	return nil
}

// Get retrieves a value from the macOS keychain.
func (s *securityBackend) Get(key string) (string, error) {
	cmd := exec.Command("security", "find-generic-password",
		"-a", ServiceName,
		"-s", key,
		"-w", // output password only
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), notFoundMarker) {
			s.log.Printf("Keychain", "get %q: not found", key)
			return "", source.ErrNotFound
		}
		err = fmt.Errorf("failed to retrieve from keychain: %s: %w", strings.TrimSpace(stderr.String()), err)
		s.log.Error("Keychain", "get", err)
		return "", err
	}

	result := strings.TrimSpace(stdout.String())
	s.log.Printf("Keychain", "get %q: %d bytes", key, len(result))
	return result, nil
}

// Delete removes a key from the macOS keychain.
func (s *securityBackend) Delete(key string) error {
	cmd := exec.Command("security", "delete-generic-password",
		"-a", ServiceName,
		"-s", key,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), notFoundMarker) {
			return source.ErrNotFound
		}
		return fmt.Errorf("failed to delete from keychain: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}
