// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import "errors"

var errNoSecurityCommand = errors.New("security backend only available on macOS")

// securityBackend is a stub for non-macOS platforms.
type securityBackend struct{}

// newSecurityBackend returns an error on non-macOS platforms.
func newSecurityBackend() (*securityBackend, error) {
	return nil, errNoSecurityCommand
}

func (s *securityBackend) Set(key, value string) error { return errNoSecurityCommand }

func (s *securityBackend) Get(key string) (string, error) { return "", errNoSecurityCommand }

func (s *securityBackend) Delete(key string) error { return errNoSecurityCommand }
