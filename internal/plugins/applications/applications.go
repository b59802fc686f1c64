// Package applications is the built-in plugin listing desktop applications
// found in the XDG data directories.
package applications

import (
	"context"
	"os"

	"github.com/VoxDroid/launchr/contract"
	"github.com/VoxDroid/launchr/internal/executor"
	"github.com/VoxDroid/launchr/internal/loader"
	"github.com/VoxDroid/launchr/internal/plugins/catalog"
)

// PluginName is the allow-list name of this plugin.
const PluginName = "applications"

const defaultTerminal = "kitty"

// Settings is the `applications` configuration section.
type Settings struct {
	MaxEntries int      `yaml:"max_entries"`
	Terminal   string   `yaml:"terminal"`
	Threshold  int64    `yaml:"threshold"`
	DataDirs   []string `yaml:"data_dirs"`
}

type model struct {
	cat      *catalog.Catalog
	settings Settings
	run      executor.Runner
}

// settingsFrom reads the plugin section, falling back to the global
// terminal. Decoding problems are returned alongside usable defaults.
func settingsFrom(cfg contract.Config) (Settings, []string) {
	var (
		s    Settings
		errs []string
	)
	if _, err := cfg.Section(PluginName, &s); err != nil {
		errs = append(errs, err.Error())
		s = Settings{}
	}
	if s.Terminal == "" {
		var global string
		if _, err := cfg.Section("terminal", &global); err != nil {
			errs = append(errs, err.Error())
		}
		s.Terminal = global
	}
	if s.Terminal == "" {
		s.Terminal = defaultTerminal
	}
	if len(s.DataDirs) == 0 {
		s.DataDirs = dataDirs(os.Getenv)
	}
	return s, errs
}

func newModel(cfg contract.Config, run executor.Runner) (*model, contract.Task) {
	s, errs := settingsFrom(cfg)
	m := &model{cat: catalog.New(s.MaxEntries, s.Threshold), settings: s, run: run}
	for _, e := range errs {
		m.cat.Fail("config: %s", e)
	}
	dirs, terminal := append([]string(nil), s.DataDirs...), s.Terminal
	return m, func() contract.Msg {
		return scan(context.Background(), dirs, terminal)
	}
}

func (m *model) start(it catalog.Item) (int, error) {
	return m.run.Exec(it.Command)
}

// Model builds the plugin state and starts the directory scan.
func Model(cfg contract.Config) (any, contract.Task) {
	return newModel(cfg, executor.New(false, false, ""))
}

// Update applies scan, ranking and launch results.
func Update(filter string, mut *contract.Mut, msg contract.Msg) contract.Task {
	m, err := contract.Mutable[*model](mut)
	if err != nil {
		return nil
	}
	return m.cat.Handle(filter, msg)
}

// Sort re-ranks the applications for filter off the control loop.
func Sort(filter string, mut *contract.Mut) contract.Task {
	m, err := contract.Mutable[*model](mut)
	if err != nil {
		return nil
	}
	return m.cat.SortTask(filter)
}

// Launch starts the application at index of the visible ranking.
func Launch(index int, mut *contract.Mut) contract.Task {
	m, err := contract.Mutable[*model](mut)
	if err != nil {
		return nil
	}
	return m.cat.LaunchTask(index, m.start)
}

// View returns the visible ranking.
func View(ref *contract.Ref) ([]contract.Scored, error) {
	m, err := contract.Shared[*model](ref)
	if err != nil {
		return nil, err
	}
	return m.cat.View(), nil
}

// Errors returns the errors recorded by the plugin.
func Errors(ref *contract.Ref) []string {
	m, err := contract.Shared[*model](ref)
	if err != nil {
		return []string{err.Error()}
	}
	return m.cat.Errors()
}

// Name returns the plugin name.
func Name() string { return PluginName }

// Count returns the number of visible entries.
func Count(ref *contract.Ref) int {
	m, err := contract.Shared[*model](ref)
	if err != nil {
		return 0
	}
	return m.cat.Count()
}

// Symbols exposes the plugin for static linking.
func Symbols() loader.SymbolTable {
	return loader.SymbolTable{
		contract.SymbolModel:  Model,
		contract.SymbolUpdate: Update,
		contract.SymbolSort:   Sort,
		contract.SymbolLaunch: Launch,
		contract.SymbolView:   View,
		contract.SymbolErrors: Errors,
		contract.SymbolName:   Name,
		contract.SymbolCount:  Count,
	}
}
