// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package endpoints names the backend API paths Mochi applications call.
package endpoints

import (
	"net/url"
	"strings"
)

// Auth contains the authentication endpoint paths, relative to the API base.
type Auth struct {
	Code     string `json:"code"`     // "_/code", request a one-time code
	Verify   string `json:"verify"`   // "_/verify", exchange the code for a credential
	Identity string `json:"identity"` // "_/identity", current user
	Logout   string `json:"logout"`   // "_/logout", revoke the credential
}

// Endpoints is the full path table.
type Endpoints struct {
	Auth  Auth   `json:"auth"`
	Icons string `json:"icons"` // app launcher icons, served from the site root
}

// Default returns the paths served by the Mochi API.
func Default() Endpoints {
	return Endpoints{
		Auth: Auth{
			Code:     "_/code",
			Verify:   "_/verify",
			Identity: "_/identity",
			Logout:   "_/logout",
		},
		Icons: "/icons",
	}
}

// Join resolves path against base. A relative path keeps base's path prefix;
// a path starting with "/" is resolved from base's origin.
func Join(base, path string) string {
	if base == "" {
		return path
	}
	b, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	if !strings.HasSuffix(b.Path, "/") {
		b.Path += "/"
	}
	ref, err := url.Parse(path)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return b.ResolveReference(ref).String()
}

// Origin returns scheme://host of raw, or "" when raw is not absolute.
func Origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
