// Copyright (c) 2025 Mochi
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package source defines the persistent credential source shared by every Mochi
// application. The core app writes the credential and profile keys; feature apps
// only read them and delete them on logout or session invalidation.
package source

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
)

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("key not found")

// Source is a synchronous key/value store shared across applications
// (cookies, the OS keychain, a redis namespace).
type Source interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Keys names the entries this system reads and removes.
type Keys struct {
	// Credential holds the raw credential, e.g. "login".
	Credential string
	// Profile holds the consolidated display profile, e.g. "mochi_me".
	Profile string
	// Legacy lists older profile keys removed on logout, e.g. "user_email".
	Legacy []string
}

// DefaultKeys returns the key names written by the core app.
func DefaultKeys() Keys {
	return Keys{
		Credential: "login",
		Profile:    "mochi_me",
		Legacy:     []string{"user_email"},
	}
}

// Profile carries display-only attributes of the signed-in user.
type Profile struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// IsZero reports whether the profile carries no attributes.
func (p Profile) IsZero() bool {
	return p.Email == "" && p.Name == ""
}

// Lookup returns the trimmed value for key, treating any read failure as absence.
// A missing credential is a normal state, never an error.
func Lookup(src Source, key string) string {
	if src == nil || key == "" {
		return ""
	}
	v, err := src.Get(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// ReadProfile decodes the profile stored under key. The core app writes JSON,
// percent-encoded when stored in a cookie. Malformed values yield an empty profile.
func ReadProfile(src Source, key string) Profile {
	raw := Lookup(src, key)
	if raw == "" {
		return Profile{}
	}
	return DecodeProfile(raw)
}

// DecodeProfile parses a raw profile value.
func DecodeProfile(raw string) Profile {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		if unescaped, err := url.QueryUnescape(raw); err == nil {
			raw = unescaped
		}
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Profile{}
	}
	p.Email = strings.TrimSpace(p.Email)
	p.Name = strings.TrimSpace(p.Name)
	return p
}

// EncodeProfile renders a profile the way the core app stores it.
func EncodeProfile(p Profile) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return url.QueryEscape(string(b))
}
