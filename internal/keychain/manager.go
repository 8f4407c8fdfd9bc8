// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the shared Mochi credential in the OS keychain so every
// CLI invocation on the machine sees the same session. The Manager implements
// source.Source: the core app's login command writes the credential and profile,
// other commands read them, and logout deletes them.
//
// On macOS the native `security` command is used first; elsewhere the 99designs
// keyring library picks the platform backend (Windows Credential Manager, Secret
// Service, KWallet or pass).
package keychain

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"mochi/shell/internal/source"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "mochi"

// Manager provides thread-safe access to the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
}

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

var _ source.Source = (*Manager)(nil)

// NewManager creates a keychain manager backed by the OS credential store.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to the keyring library if the security command is missing.
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewWithKeyring wraps an already opened keyring.
func NewWithKeyring(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// openRing opens the OS keyring using native platform backends only. There is
// no encrypted-file fallback: it would prompt for a passphrase on every command.
func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowed = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	default:
		return nil, fmt.Errorf("secure storage not supported on %s", runtime.GOOS)
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowed,
		PassPrefix:      ServiceName,
		WinCredPrefix:   ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. Install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

// Get returns the value stored under key, or source.ErrNotFound.
func (m *Manager) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(key)
		if err != nil {
			return "", err
		}
		if v == "" {
			return "", source.ErrNotFound
		}
		return v, nil
	}

	it, err := m.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", source.ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", source.ErrNotFound
	}
	return string(it.Data), nil
}

// Set stores value under key, replacing any previous value.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Label: ServiceName + " " + key, Data: []byte(value)})
}

// Delete removes key. A missing key reports source.ErrNotFound.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		return m.backend.Delete(key)
	}

	if err := m.ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return source.ErrNotFound
		}
		return err
	}
	return nil
}
