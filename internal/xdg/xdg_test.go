package xdg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDirHonorsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", base)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(base, AppName); dir != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("permissions = %o, want 700", perm)
	}
}

func TestConfigFileHonorsOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv(ConfigDirEnv, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	got, err := ConfigFile()
	if err != nil {
		t.Fatalf("ConfigFile() error = %v", err)
	}
	if want := filepath.Join(dir, ConfigFileName); got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("override dir not created: %v", err)
	}
}
