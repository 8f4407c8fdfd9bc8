// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"errors"
	"fmt"
	"strings"

	"mochi/shell/internal/backend"
	"mochi/shell/internal/source"
)

// Save writes a freshly issued credential and its profile to the shared source,
// the way the core sign-in app does.
func Save(src source.Source, keys source.Keys, creds backend.Credentials) error {
	credential := strings.TrimSpace(creds.Credential)
	if credential == "" {
		return errors.New("empty credential")
	}
	if err := src.Set(keys.Credential, credential); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if creds.Profile.IsZero() {
		return nil
	}
	if err := src.Set(keys.Profile, source.EncodeProfile(creds.Profile)); err != nil {
		return fmt.Errorf("store profile: %w", err)
	}
	return nil
}
