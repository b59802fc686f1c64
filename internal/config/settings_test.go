package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvMaxEntries, "")
	t.Setenv(EnvPluginDir, "")
	return home
}

func TestLoadCreatesDefault(t *testing.T) {
	home := isolate(t)
	cfg, err := NewLoader().CreateMissing().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Created {
		t.Fatalf("expected the default file to be written")
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); err != nil {
		t.Fatalf("default file missing: %v", err)
	}
	s := cfg.Settings
	if s.MaxEntries != 7 || s.Terminal != "kitty" || len(s.Plugins) != 2 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.PluginDir != filepath.Join(home, "plugins") {
		t.Fatalf("plugin dir = %s", s.PluginDir)
	}
	if !cfg.Doc.Has("applications") || !cfg.Doc.Has("commands") {
		t.Fatalf("plugin sections should be in the document: %v", cfg.Doc.Names())
	}
	var apps struct {
		MaxEntries int `yaml:"max_entries"`
	}
	if ok, err := cfg.Doc.Section("applications", &apps); !ok || err != nil || apps.MaxEntries != 7 {
		t.Fatalf("applications section = %+v, %v, %v", apps, ok, err)
	}

	again, err := NewLoader().CreateMissing().Load()
	if err != nil || again.Created {
		t.Fatalf("second load should read the existing file: %+v %v", again, err)
	}
}

func TestLoadMissingWithoutCreate(t *testing.T) {
	home := isolate(t)
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Created {
		t.Fatalf("file should not be created")
	}
	if _, err := os.Stat(filepath.Join(home, "config.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("unexpected file: %v", err)
	}
}

func TestLoadFileEnvAndOverrides(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	doc := "plugins: [commands]\nmax_entries: 3\nterminal: foot\nweather:\n  city: Oslo\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := NewLoader().WithPath(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Settings.MaxEntries != 3 || cfg.Settings.Terminal != "foot" || len(cfg.Settings.Plugins) != 1 {
		t.Fatalf("file values not applied: %+v", cfg.Settings)
	}
	var weather struct {
		City string `yaml:"city"`
	}
	if ok, err := cfg.Doc.Section("weather", &weather); !ok || err != nil || weather.City != "Oslo" {
		t.Fatalf("unknown sections should pass through: %v %v %+v", ok, err, weather)
	}

	t.Setenv(EnvMaxEntries, "5")
	t.Setenv(EnvPluginDir, "/opt/launchr/plugins")
	cfg, err = NewLoader().WithPath(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Settings.MaxEntries != 5 || cfg.Settings.PluginDir != "/opt/launchr/plugins" {
		t.Fatalf("env not applied: %+v", cfg.Settings)
	}

	cfg, err = NewLoader().WithPath(path).WithMaxEntries(9).WithPluginDir("/srv/p").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Settings.MaxEntries != 9 || cfg.Settings.PluginDir != "/srv/p" {
		t.Fatalf("overrides not applied: %+v", cfg.Settings)
	}
}

func TestLoadInvalid(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cases := map[string]string{
		"zero max":   "max_entries: 0\n",
		"bad yaml":   "plugins: [\n",
		"path name":  "plugins: [../evil]\n",
		"wrong type": "max_entries: many\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := NewLoader().WithPath(path).Load(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	t.Setenv(EnvMaxEntries, "lots")
	if _, err := NewLoader().WithPath(filepath.Join(dir, "none.yaml")).Load(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for env, got %v", err)
	}
}

func TestWriteDefaultKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_entries: 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	b, _ := os.ReadFile(path)
	if string(b) != "max_entries: 2\n" {
		t.Fatalf("existing file was overwritten: %q", b)
	}
}
