// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"strings"

	"mochi/shell/internal/source"
)

// Identity calls GET _/identity with the session credential.
// A successful result is reused for ten minutes. Failures are never masked by
// the cache: a 401 must reach the caller so the session is cleared.
func (h *HTTP) Identity(ctx context.Context) (source.Profile, error) {
	if p, ok := h.cachedIdentity(); ok {
		return p, nil
	}

	var raw map[string]any
	if err := h.client.Get(ctx, h.endpoints.Auth.Identity, &raw); err != nil {
		h.storeIdentity(nil)
		return source.Profile{}, err
	}

	p := profileFromJSON(raw)
	h.storeIdentity(&p)
	return p, nil
}

// Icons calls GET /icons, served from the site root.
func (h *HTTP) Icons(ctx context.Context) ([]AppIcon, error) {
	var icons []AppIcon
	if err := h.client.Get(ctx, h.endpoints.Icons, &icons); err != nil {
		return nil, err
	}
	return icons, nil
}

// profileFromJSON reads email and name from a payload that may nest them
// under "user" or "data".
func profileFromJSON(raw map[string]any) source.Profile {
	for _, key := range []string{"user", "data"} {
		if nested, ok := raw[key].(map[string]any); ok {
			if p := profileFromJSON(nested); !p.IsZero() {
				return p
			}
		}
	}
	var p source.Profile
	if v, ok := raw["email"].(string); ok {
		p.Email = strings.TrimSpace(v)
	}
	if v, ok := raw["name"].(string); ok {
		p.Name = strings.TrimSpace(v)
	}
	return p
}
