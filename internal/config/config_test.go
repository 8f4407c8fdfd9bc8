package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if !reflect.DeepEqual(c, Default()) {
		t.Errorf("LoadFrom() = %+v, want defaults", c)
	}
	if c.Scheme() != "Bearer" {
		t.Errorf("Scheme() = %q", c.Scheme())
	}
}

func TestLoadFromLayers(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	file := `{
  "api_base_url": "https://api.mochi.dev",
  "sign_in_url": "https://mochi.dev/login",
  "credential_key": "session",
  "api_timeout": "5s",
  "app": "feeds"
}`
	if err := os.WriteFile(p, []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOCHI_APP", "chat")
	t.Setenv("MOCHI_LEGACY_PROFILE_KEYS", "user_email,user_name")
	t.Setenv("MOCHI_AUTH_SCHEME", "none")

	c, err := LoadFrom(p)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if c.APIBaseURL != "https://api.mochi.dev" || c.CredentialKey != "session" {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.App != "chat" {
		t.Errorf("App = %q, env should win over file", c.App)
	}
	if got := c.APITimeout.Std(); got != 5*time.Second {
		t.Errorf("APITimeout = %v, want 5s", got)
	}
	if want := []string{"user_email", "user_name"}; !reflect.DeepEqual(c.Keys().Legacy, want) {
		t.Errorf("Legacy = %v, want %v", c.Keys().Legacy, want)
	}
	if c.Scheme() != "" {
		t.Errorf("Scheme() = %q, want raw", c.Scheme())
	}
	if c.ProfileKey != "mochi_me" {
		t.Errorf("ProfileKey = %q, default should survive", c.ProfileKey)
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.CredentialStore = "vault"
	c.SignInURL = ""
	if err := c.Validate(); err == nil {
		t.Error("Validate() accepted an unknown store and an empty sign-in URL")
	}

	c = Default()
	c.SignInURL = "/login"
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() rejected a site-relative sign-in URL: %v", err)
	}
}

func TestLoadFromRejectsMalformedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(p); err == nil {
		t.Error("LoadFrom() accepted malformed JSON")
	}
}
