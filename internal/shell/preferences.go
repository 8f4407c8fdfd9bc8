// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

package shell

import (
	"fmt"
	"slices"

	"mochi/shell/internal/source"
)

// UI preference keys. They live next to the credential in the shared source
// and are never removed by logout.
const (
	PrefTheme             = "theme"
	PrefFont              = "font"
	PrefDir               = "dir"
	PrefLayoutCollapsible = "layout_collapsible"
	PrefLayoutVariant     = "layout_variant"
)

// preferenceValues lists the accepted values per key; the first is the default.
var preferenceValues = map[string][]string{
	PrefTheme:             {"system", "light", "dark"},
	PrefFont:              {"inter", "manrope", "system"},
	PrefDir:               {"ltr", "rtl"},
	PrefLayoutCollapsible: {"icon", "offcanvas", "none"},
	PrefLayoutVariant:     {"inset", "sidebar", "floating"},
}

// Preferences is the UI state read back from the source.
type Preferences struct {
	Theme             string `json:"theme"`
	Font              string `json:"font"`
	Dir               string `json:"dir"`
	LayoutCollapsible string `json:"layout_collapsible"`
	LayoutVariant     string `json:"layout_variant"`
}

// ReadPreferences reads every preference from src, falling back to the default
// for missing or unknown values.
func ReadPreferences(src source.Source) Preferences {
	get := func(key string) string {
		v := source.Lookup(src, key)
		if slices.Contains(preferenceValues[key], v) {
			return v
		}
		return preferenceValues[key][0]
	}
	return Preferences{
		Theme:             get(PrefTheme),
		Font:              get(PrefFont),
		Dir:               get(PrefDir),
		LayoutCollapsible: get(PrefLayoutCollapsible),
		LayoutVariant:     get(PrefLayoutVariant),
	}
}

// ValidatePreference reports whether value may be stored under key.
func ValidatePreference(key, value string) error {
	allowed, ok := preferenceValues[key]
	if !ok {
		return fmt.Errorf("unknown preference %q", key)
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q", key, value)
	}
	return nil
}
