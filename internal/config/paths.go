// Package config resolves launchr's files and loads its settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that override paths and settings.
const (
	EnvHome       = "LAUNCHR_HOME"
	EnvConfig     = "LAUNCHR_CONFIG"
	EnvDB         = "LAUNCHR_DB"
	EnvMaxEntries = "LAUNCHR_MAX_ENTRIES"
	EnvPluginDir  = "LAUNCHR_PLUGIN_DIR"
)

const appName = "launchr"

// Dir returns the directory holding launchr's configuration, plugins, log
// and database. LAUNCHR_HOME wins; otherwise the user config directory is
// used ($XDG_CONFIG_HOME/launchr on Linux).
func Dir() (string, error) {
	if v := os.Getenv(EnvHome); v != "" {
		return v, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// EnsureDir returns Dir after creating it if needed.
func EnsureDir() (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return d, nil
}

// Path returns the configuration file path. LAUNCHR_CONFIG overrides it.
func Path() (string, error) {
	if v := os.Getenv(EnvConfig); v != "" {
		return v, nil
	}
	return inDir("config.yaml")
}

// DefaultPluginDir returns the plugin directory used when none is
// configured.
func DefaultPluginDir() (string, error) { return inDir("plugins") }

// LogPath returns the default log file path.
func LogPath() (string, error) { return inDir(appName + ".log") }

// DBPath returns the SQLite database of saved command sets. LAUNCHR_DB
// overrides it.
func DBPath() (string, error) {
	if v := os.Getenv(EnvDB); v != "" {
		return v, nil
	}
	return inDir("commands.db")
}

func inDir(name string) (string, error) {
	d, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, name), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p == "~" || len(p) > 1 && p[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
