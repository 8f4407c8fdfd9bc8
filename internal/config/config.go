// Package config loads Mochi settings.
//
// Settings come from three layers, later ones winning: built-in defaults, the
// XDG config.json, then MOCHI_* environment variables. Command flags are
// applied on top by the caller. Only non-secret settings are kept here; the
// credential itself lives in the credential source.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"mochi/shell/internal/source"
	"mochi/shell/internal/xdg"
)

// Credential store kinds for the CLI.
const (
	StoreKeychain = "keychain"
	StoreRedis    = "redis"
)

// SchemeNone disables the Authorization scheme prefix.
const SchemeNone = "none"

// Config holds non-sensitive settings.
type Config struct {
	APIBaseURL string `json:"api_base_url" env:"MOCHI_API_BASE_URL"`
	// SignInURL receives users whose session is missing or expired, with a return URL.
	SignInURL string `json:"sign_in_url" env:"MOCHI_AUTH_SIGN_IN_URL"`
	// LoginURL receives users after logout.
	LoginURL string `json:"login_url" env:"MOCHI_AUTH_LOGIN_URL"`

	CredentialKey     string   `json:"credential_key" env:"MOCHI_CREDENTIAL_KEY"`
	ProfileKey        string   `json:"profile_key" env:"MOCHI_PROFILE_KEY"`
	LegacyProfileKeys []string `json:"legacy_profile_keys" env:"MOCHI_LEGACY_PROFILE_KEYS" envSeparator:","`

	// AuthScheme prefixes the credential in the Authorization header; "none" sends it raw.
	AuthScheme      string   `json:"auth_scheme" env:"MOCHI_AUTH_SCHEME"`
	AuthPathMarkers []string `json:"auth_path_markers" env:"MOCHI_AUTH_PATH_MARKERS" envSeparator:","`
	APITimeout      Duration `json:"api_timeout" env:"MOCHI_API_TIMEOUT"`

	Dev bool `json:"dev" env:"MOCHI_DEV"`

	// Shell server settings.
	HTTPAddr     string `json:"http_addr" env:"MOCHI_HTTP_ADDR"`
	App          string `json:"app" env:"MOCHI_APP"`
	CookieDomain string `json:"cookie_domain" env:"MOCHI_COOKIE_DOMAIN"`
	CookieSecure bool   `json:"cookie_secure" env:"MOCHI_COOKIE_SECURE"`

	// CLI credential source.
	CredentialStore string `json:"credential_store" env:"MOCHI_CREDENTIAL_STORE"`
	RedisAddr       string `json:"redis_addr" env:"MOCHI_REDIS_ADDR"`
	RedisNamespace  string `json:"redis_namespace" env:"MOCHI_REDIS_NAMESPACE"`
}

// Default returns the built-in settings, pointing at a local Mochi stack.
func Default() Config {
	keys := source.DefaultKeys()
	return Config{
		APIBaseURL:        "http://localhost:8081/api",
		SignInURL:         "http://localhost:8080/login",
		LoginURL:          "http://localhost:8080/login",
		CredentialKey:     keys.Credential,
		ProfileKey:        keys.Profile,
		LegacyProfileKeys: keys.Legacy,
		AuthScheme:        "Bearer",
		AuthPathMarkers:   []string{"/login", "/auth", "/verify", "/_/code", "/logout"},
		APITimeout:        Duration(30 * time.Second),
		HTTPAddr:          ":8080",
		App:               "template",
		CredentialStore:   StoreKeychain,
		RedisAddr:         "localhost:6379",
		RedisNamespace:    "mochi",
	}
}

// Load reads the XDG config file and the environment.
func Load() (Config, error) {
	p, err := xdg.ConfigFile()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(p)
}

// LoadFrom reads the config file at p, then the environment. A missing file
// yields the defaults.
func LoadFrom(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}

	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, c.Validate()
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := xdg.ConfigFile()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Validate reports settings the rest of the system cannot work with.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"api_base_url": c.APIBaseURL,
		"sign_in_url":  c.SignInURL,
		"login_url":    c.LoginURL,
	} {
		if u, err := url.Parse(raw); err != nil || raw == "" || (u.Scheme == "" && !strings.HasPrefix(raw, "/")) {
			errs = append(errs, fmt.Errorf("%s: %q is not an absolute URL or path", name, raw))
		}
	}
	if strings.TrimSpace(c.CredentialKey) == "" {
		errs = append(errs, errors.New("credential_key must not be empty"))
	}
	switch c.CredentialStore {
	case StoreKeychain, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("credential_store: unknown store %q", c.CredentialStore))
	}
	return errors.Join(errs...)
}

// Keys returns the credential source key names.
func (c Config) Keys() source.Keys {
	return source.Keys{
		Credential: c.CredentialKey,
		Profile:    c.ProfileKey,
		Legacy:     c.LegacyProfileKeys,
	}
}

// Scheme returns the Authorization scheme, empty for raw credentials.
func (c Config) Scheme() string {
	if strings.EqualFold(c.AuthScheme, SchemeNone) {
		return ""
	}
	return strings.TrimSpace(c.AuthScheme)
}

// Duration is a time.Duration read from "30s"-style strings in both JSON and
// the environment.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
