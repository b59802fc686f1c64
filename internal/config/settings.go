package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/VoxDroid/launchr/contract"
)

// ErrInvalid is returned for settings that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Defaults.
const (
	DefaultMaxEntries = 7
	DefaultTerminal   = "kitty"
	DefaultLogLevel   = "info"
)

// DefaultPlugins is the allow-list written to a new configuration file.
var DefaultPlugins = []string{"applications", "commands"}

// LogSettings is the `log` section.
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Settings are the keys the host itself understands. Every other top-level
// key is left to plugins.
type Settings struct {
	Plugins    []string    `yaml:"plugins"`
	MaxEntries int         `yaml:"max_entries"`
	PluginDir  string      `yaml:"plugin_dir,omitempty"`
	Terminal   string      `yaml:"terminal"`
	Log        LogSettings `yaml:"log"`
}

// Defaults returns the settings used for keys the file leaves out.
func Defaults() Settings {
	return Settings{
		Plugins:    append([]string(nil), DefaultPlugins...),
		MaxEntries: DefaultMaxEntries,
		Terminal:   DefaultTerminal,
		Log:        LogSettings{Level: DefaultLogLevel},
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if s.MaxEntries < 1 {
		return fmt.Errorf("%w: max_entries must be at least 1, got %d", ErrInvalid, s.MaxEntries)
	}
	for _, p := range s.Plugins {
		if p == "" || filepath.Base(p) != p {
			return fmt.Errorf("%w: plugin name %q", ErrInvalid, p)
		}
	}
	return nil
}

// Config is the loaded configuration: the host settings plus the whole
// document for plugins.
type Config struct {
	Path     string
	Created  bool
	Settings Settings
	Doc      contract.Config
}

// Loader loads the configuration. Sources apply in order: defaults, the YAML
// file, environment variables, then explicit overrides.
type Loader struct {
	path       string
	pluginDir  string
	maxEntries int
	create     bool
}

// NewLoader returns a Loader for the default file location.
func NewLoader() *Loader { return &Loader{} }

// WithPath reads the configuration from path instead of the default.
func (l *Loader) WithPath(path string) *Loader {
	l.path = path
	return l
}

// WithPluginDir overrides plugin_dir.
func (l *Loader) WithPluginDir(dir string) *Loader {
	l.pluginDir = dir
	return l
}

// WithMaxEntries overrides max_entries when n is positive.
func (l *Loader) WithMaxEntries(n int) *Loader {
	l.maxEntries = n
	return l
}

// CreateMissing writes the default file when none exists.
func (l *Loader) CreateMissing() *Loader {
	l.create = true
	return l
}

// Load reads and validates the configuration. A missing file yields the
// defaults; with CreateMissing they are written out and then read back like
// any other file, plugin sections included. The plugin directory is resolved
// to an absolute default when unset.
func (l *Loader) Load() (*Config, error) {
	path := l.path
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := &Config{Path: path, Settings: Defaults()}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if l.create {
			if err := WriteDefault(path); err != nil {
				return nil, err
			}
			cfg.Created = true
			data = []byte(defaultDoc)
		} else {
			data = nil
		}
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg.Settings); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}
	doc, err := contract.ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.Doc = doc

	if err := applyEnv(&cfg.Settings); err != nil {
		return nil, err
	}
	if l.pluginDir != "" {
		cfg.Settings.PluginDir = l.pluginDir
	}
	if l.maxEntries > 0 {
		cfg.Settings.MaxEntries = l.maxEntries
	}
	if cfg.Settings.PluginDir == "" {
		d, err := DefaultPluginDir()
		if err != nil {
			return nil, err
		}
		cfg.Settings.PluginDir = d
	}
	cfg.Settings.PluginDir = ExpandHome(cfg.Settings.PluginDir)

	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(s *Settings) error {
	if v := os.Getenv(EnvMaxEntries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, EnvMaxEntries, v)
		}
		s.MaxEntries = n
	}
	if v := os.Getenv(EnvPluginDir); v != "" {
		s.PluginDir = v
	}
	return nil
}

// defaultDoc is written on first run. Sections other than the host keys are
// read by the plugins of the same name.
const defaultDoc = `# launchr configuration
plugins:
  - applications
  - commands
max_entries: 7
terminal: kitty
log:
  level: info

applications:
  max_entries: 7
  threshold: 1

commands:
  max_entries: 7
  threshold: 1
`

// WriteDefault writes the default configuration to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("write default config: %w", err)
	}
	if _, err := f.WriteString(defaultDoc); err != nil {
		_ = f.Close()
		return fmt.Errorf("write default config: %w", err)
	}
	return f.Close()
}
