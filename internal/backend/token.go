// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"strings"
)

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return ""
	}
	if strings.EqualFold(v[0:6], "bearer") && (v[6] == ' ' || v[6] == '\t') {
		return strings.TrimSpace(v[6:])
	}
	return ""
}

// findCredentialInHeaders looks for the credential in a "Login" header or a
// bearer Authorization header.
func findCredentialInHeaders(h http.Header) string {
	if v := strings.TrimSpace(h.Get("Login")); v != "" {
		return v
	}
	return parseBearerToken(h.Get("Authorization"))
}
