// Package xdg resolves where mochi keeps its files.
//
// MOCHI_CONFIG_DIR wins when set (containers, tests). Otherwise the XDG Base
// Directory rules apply, falling back to ~/.config when XDG_CONFIG_HOME is unset.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the XDG roots.
const AppName = "mochi"

// ConfigDirEnv overrides the config directory.
const ConfigDirEnv = "MOCHI_CONFIG_DIR"

// ConfigFileName is the settings file inside ConfigDir.
const ConfigFileName = "config.json"

// ConfigDir returns the mochi config directory, creating it with 0700
// permissions if missing.
func ConfigDir() (string, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
		dir = filepath.Join(base, AppName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// ConfigFile returns the path of the settings file. The file itself may not exist.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}
