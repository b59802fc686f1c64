// Package loader discovers launcher plugins and binds their contract entry
// points. A plugin is either a shared object built with -buildmode=plugin and
// found in the plugin directory, or a statically linked built-in.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Ext is the file extension of dynamically loaded plugins.
const Ext = ".so"

// Source tells where a plugin was loaded from.
type Source string

// Plugin sources.
const (
	SourceFile    Source = "file"
	SourceBuiltin Source = "builtin"
)

// Plugin is a plugin whose contract is fully bound.
type Plugin struct {
	Name   string
	Source Source
	Path   string
	Table  Table
}

// Rejection records a plugin that was skipped.
type Rejection struct {
	Name string
	Path string
	Err  error
}

func (r Rejection) Error() string {
	if r.Path == "" {
		return fmt.Sprintf("plugin %s: %v", r.Name, r.Err)
	}
	return fmt.Sprintf("plugin %s (%s): %v", r.Name, r.Path, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Result is the outcome of a load pass. Loaded is in load order. Ignored
// lists module files that are not allow-listed; they are never opened.
type Result struct {
	Loaded   []Plugin
	Rejected []Rejection
	Ignored  []Rejection
}

// Opener opens a plugin module at path.
type Opener func(path string) (Symbols, error)

// OpenShared opens a Go shared-object plugin.
func OpenShared(path string) (Symbols, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Loader finds and binds plugins.
type Loader struct {
	dir      string
	allow    []string
	builtins map[string]Symbols
	open     Opener
	log      *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithBuiltins registers statically linked plugins by name.
func WithBuiltins(b map[string]Symbols) Option {
	return func(l *Loader) {
		for k, v := range b {
			l.builtins[k] = v
		}
	}
}

// WithOpener replaces the function used to open files from the plugin
// directory.
func WithOpener(o Opener) Option {
	return func(l *Loader) { l.open = o }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates a Loader for dir that only accepts the names in allow.
func New(dir string, allow []string, opts ...Option) *Loader {
	l := &Loader{
		dir:      dir,
		allow:    slices.Clone(allow),
		builtins: make(map[string]Symbols),
		open:     OpenShared,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allowed reports whether name is on the allow-list.
func (l *Loader) Allowed(name string) bool {
	return slices.Contains(l.allow, name)
}

// Load scans the plugin directory in name order and then falls back to
// built-ins for allow-listed names not found on disk, in allow-list order.
// A plugin that fails to open or bind is rejected as a whole and takes no
// slot in Loaded. A missing directory is not an error.
func (l *Loader) Load() (Result, error) {
	var res Result
	seen := make(map[string]bool)

	files, err := l.scan(&res)
	if err != nil {
		return res, err
	}
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), Ext)
		seen[name] = true
		syms, err := l.open(path)
		if err != nil {
			l.reject(&res, name, path, fmt.Errorf("open: %w", err))
			continue
		}
		l.bind(&res, name, path, SourceFile, syms)
	}

	for _, name := range l.allow {
		if seen[name] {
			continue
		}
		seen[name] = true
		syms, ok := l.builtins[name]
		if !ok {
			l.reject(&res, name, "", ErrNotFound)
			continue
		}
		l.bind(&res, name, "", SourceBuiltin, syms)
	}
	return res, nil
}

func (l *Loader) scan(res *Result) ([]string, error) {
	if l.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read plugin dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != Ext {
			continue
		}
		path := filepath.Join(l.dir, e.Name())
		// follow symlinks but only accept regular files
		fi, err := os.Stat(path)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), Ext)
		if !l.Allowed(stem) {
			res.Ignored = append(res.Ignored, Rejection{Name: stem, Path: path, Err: ErrNotAllowed})
			l.log.Debug("plugin not allow-listed", zap.String("path", path))
			continue
		}
		out = append(out, path)
	}
	return out, nil
}

func (l *Loader) bind(res *Result, name, path string, src Source, syms Symbols) {
	t, err := Bind(syms)
	if err != nil {
		l.reject(res, name, path, err)
		return
	}
	res.Loaded = append(res.Loaded, Plugin{Name: name, Source: src, Path: path, Table: t})
	l.log.Info("plugin loaded", zap.String("name", name), zap.String("source", string(src)))
}

func (l *Loader) reject(res *Result, name, path string, err error) {
	res.Rejected = append(res.Rejected, Rejection{Name: name, Path: path, Err: err})
	l.log.Warn("plugin rejected", zap.String("name", name), zap.String("path", path), zap.Error(err))
}
