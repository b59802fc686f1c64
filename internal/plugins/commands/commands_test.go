package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/VoxDroid/launchr/contract"
	"github.com/VoxDroid/launchr/internal/db"
	"github.com/VoxDroid/launchr/internal/executor"
	"github.com/VoxDroid/launchr/internal/loader"
	"github.com/VoxDroid/launchr/internal/registry"
)

type fakeRunner struct {
	shell  string
	spawns []string
}

func (f *fakeRunner) Execute(context.Context, string, string, io.Writer, io.Writer) error {
	return nil
}
func (f *fakeRunner) Spawn(cmd string) (int, error) {
	f.spawns = append(f.spawns, cmd)
	return 99, nil
}
func (f *fakeRunner) Exec(string) (int, error) { return 0, errors.New("unexpected exec") }

func seed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commands.db")
	conn, err := db.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	repo := registry.NewRepository(conn)
	defer func() { _ = repo.Close() }()
	if _, err := repo.CreateCommandSet("deploy", "ship the site", []string{"make build", "make push"}); err != nil {
		t.Fatalf("CreateCommandSet: %v", err)
	}
	if _, err := repo.CreateCommandSet("wipe", "", []string{"rm -rf /"}); err != nil {
		t.Fatalf("CreateCommandSet: %v", err)
	}
	if err := repo.AddTag("wipe", "danger"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	return path
}

func newTestModel(t *testing.T, dbPath string) (*contract.Cell, contract.Task, *fakeRunner) {
	t.Helper()
	doc := fmt.Sprintf("commands:\n  db_path: %q\n  shell: zsh\n", dbPath)
	cfg, err := contract.ParseConfig([]byte(doc))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	run := &fakeRunner{}
	m, task := newModel(cfg, func(shell string) executor.Runner {
		run.shell = shell
		return run
	})
	return contract.NewCell(0, m), task, run
}

func step(cell *contract.Cell, filter string, msg contract.Msg) contract.Task {
	mut := cell.Mut()
	defer mut.Release()
	return Update(filter, mut, msg)
}

func launch(cell *contract.Cell, index int) contract.Task {
	mut := cell.Mut()
	defer mut.Release()
	return Launch(index, mut)
}

func errorsOf(cell *contract.Cell) []string {
	ref := cell.Ref()
	defer ref.Release()
	return Errors(ref)
}

func TestLaunchJoinsCommands(t *testing.T) {
	cell, task, run := newTestModel(t, seed(t))
	if run.shell != "zsh" {
		t.Fatalf("shell setting not passed: %q", run.shell)
	}
	step(cell, "deploy", step(cell, "deploy", task())())

	ref := cell.Ref()
	n := Count(ref)
	ref.Release()
	if n != 1 {
		t.Fatalf("expected one match, got %d", n)
	}
	step(cell, "deploy", launch(cell, 0)())
	if len(run.spawns) != 1 || run.spawns[0] != "make build && make push" {
		t.Fatalf("unexpected spawns: %v", run.spawns)
	}
	if errs := errorsOf(cell); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestDestructiveSetBlocked(t *testing.T) {
	cell, task, run := newTestModel(t, seed(t))
	// matched through its tag
	step(cell, "danger", step(cell, "danger", task())())
	step(cell, "danger", launch(cell, 0)())
	if len(run.spawns) != 0 {
		t.Fatalf("blocked set must not be spawned: %v", run.spawns)
	}
	errs := errorsOf(cell)
	if len(errs) != 1 || !strings.Contains(errs[0], "destructive") {
		t.Fatalf("block should be recorded: %v", errs)
	}
}

func TestMissingDatabaseIsEmpty(t *testing.T) {
	cell, task, _ := newTestModel(t, filepath.Join(t.TempDir(), "none.db"))
	if next := step(cell, "x", task()); next == nil {
		t.Fatalf("expected a ranking task")
	}
	if errs := errorsOf(cell); len(errs) != 0 {
		t.Fatalf("missing database is not an error: %v", errs)
	}
}

func TestSymbolsBind(t *testing.T) {
	if _, err := loader.Bind(Symbols()); err != nil {
		t.Fatalf("Bind: %v", err)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("LAUNCHR_HOME", t.TempDir())
	t.Setenv("LAUNCHR_DB", "")
	cfg, err := contract.ParseConfig([]byte("commands: nope\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	s, err := LoadSettings(cfg)
	if err == nil {
		t.Fatalf("malformed section should be reported")
	}
	if filepath.Base(s.DBPath) != "commands.db" {
		t.Fatalf("db path should fall back to the default, got %q", s.DBPath)
	}
}
