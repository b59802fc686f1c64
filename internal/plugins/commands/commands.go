// Package commands is the built-in plugin listing saved command sets. A
// launched set runs detached through the shell as one line.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/VoxDroid/launchr/contract"
	"github.com/VoxDroid/launchr/internal/config"
	"github.com/VoxDroid/launchr/internal/db"
	"github.com/VoxDroid/launchr/internal/executor"
	"github.com/VoxDroid/launchr/internal/loader"
	"github.com/VoxDroid/launchr/internal/plugins/catalog"
	"github.com/VoxDroid/launchr/internal/registry"
	"github.com/VoxDroid/launchr/internal/security"
)

// PluginName is the allow-list name of this plugin.
const PluginName = "commands"

// Settings is the `commands` configuration section.
type Settings struct {
	DBPath     string `yaml:"db_path"`
	MaxEntries int    `yaml:"max_entries"`
	Threshold  int64  `yaml:"threshold"`
	Shell      string `yaml:"shell"`
}

type model struct {
	cat      *catalog.Catalog
	settings Settings
	run      executor.Runner
}

// LoadSettings reads the `commands` section. The database path falls back to
// the launcher's default and is home-expanded. A malformed section is
// reported and the defaults are returned with it.
func LoadSettings(cfg contract.Config) (Settings, error) {
	var s Settings
	var errs []error
	if _, err := cfg.Section(PluginName, &s); err != nil {
		errs = append(errs, err)
		s = Settings{}
	}
	if s.DBPath == "" {
		p, err := config.DBPath()
		if err != nil {
			errs = append(errs, err)
		}
		s.DBPath = p
	}
	s.DBPath = config.ExpandHome(s.DBPath)
	return s, errors.Join(errs...)
}

func newModel(cfg contract.Config, newRunner func(shell string) executor.Runner) (*model, contract.Task) {
	s, err := LoadSettings(cfg)
	m := &model{cat: catalog.New(s.MaxEntries, s.Threshold), settings: s, run: newRunner(s.Shell)}
	if err != nil {
		m.cat.Fail("config: %v", err)
	}
	path := s.DBPath
	return m, func() contract.Msg { return load(path) }
}

// load reads every saved set. A database that does not exist yet is an empty
// catalog; it is created by the first `launchr commands save`.
func load(path string) catalog.Loaded {
	if path == "" {
		return catalog.Loaded{}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return catalog.Loaded{}
	}
	conn, err := db.Open(path)
	if err != nil {
		return catalog.Loaded{Errs: []string{fmt.Sprintf("open %s: %v", path, err)}}
	}
	repo := registry.NewRepository(conn)
	defer func() { _ = repo.Close() }()

	sets, err := repo.ListCommandSets(true)
	if err != nil {
		return catalog.Loaded{Errs: []string{fmt.Sprintf("list command sets: %v", err)}}
	}
	items := make([]catalog.Item, 0, len(sets))
	for _, cs := range sets {
		items = append(items, catalog.Item{
			Name:        cs.Name,
			Description: cs.Description.String,
			Tags:        cs.Tags,
			Command:     cs.Line(),
		})
	}
	return catalog.Loaded{Items: items}
}

func (m *model) start(it catalog.Item) (int, error) {
	if err := security.CheckAllowed(it.Command); err != nil {
		return 0, err
	}
	return m.run.Spawn(it.Command)
}

// Model builds the plugin state and starts loading the saved sets.
func Model(cfg contract.Config) (any, contract.Task) {
	return newModel(cfg, func(shell string) executor.Runner { return executor.New(false, false, shell) })
}

// Update applies load, ranking and launch results.
func Update(filter string, mut *contract.Mut, msg contract.Msg) contract.Task {
	m, err := contract.Mutable[*model](mut)
	if err != nil {
		return nil
	}
	return m.cat.Handle(filter, msg)
}

// Sort re-ranks the sets for filter.
func Sort(filter string, mut *contract.Mut) contract.Task {
	m, err := contract.Mutable[*model](mut)
	if err != nil {
		return nil
	}
	return m.cat.SortTask(filter)
}

// Launch runs the set at index of the visible ranking.
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
