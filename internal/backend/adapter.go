// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the Mochi API operations applications depend on.
// Every call goes through apiclient, so the credential is attached and the
// global 401/403/5xx/network policy applies.
package backend

import (
	"context"

	"mochi/shell/internal/source"
)

// API defines backend operations the shell and the CLI depend on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// RequestCode asks the core API to send a one-time sign-in code to email.
	RequestCode(ctx context.Context, email string) error
	// Verify exchanges the code for a credential and the user's profile.
	Verify(ctx context.Context, email, code string) (Credentials, error)
	// Identity returns the profile of the credential's owner.
	Identity(ctx context.Context) (source.Profile, error)
	// Logout revokes the current credential on the backend.
	Logout(ctx context.Context) error
	// Icons lists the apps shown in the launcher.
	Icons(ctx context.Context) ([]AppIcon, error)
}

// Credentials is what a successful verification yields.
type Credentials struct {
	Credential string
	Profile    source.Profile
}

// AppIcon is one launcher entry.
type AppIcon struct {
	Path string `json:"path"`
	Name string `json:"name"`
	File string `json:"file"`
}
