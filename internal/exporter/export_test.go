package exporter

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/launchr/internal/db"
	"github.com/VoxDroid/launchr/internal/registry"
)

func open(t *testing.T, path string) *registry.Repository {
	t.Helper()
	conn, err := db.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	r := registry.NewRepository(conn)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestExportSelectedSets(t *testing.T) {
	dir := t.TempDir()
	src := open(t, filepath.Join(dir, "src.db"))
	if _, err := src.CreateCommandSet("deploy", "ship", []string{"make build", "make push"}); err != nil {
		t.Fatal(err)
	}
	if err := src.AddTag("deploy", "web"); err != nil {
		t.Fatal(err)
	}
	if _, err := src.CreateCommandSet("other", "", []string{"true"}); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "out", "export.db")
	n, err := Export(src, []string{"deploy"}, dst)
	if err != nil || n != 1 {
		t.Fatalf("Export = %d, %v", n, err)
	}
	out := open(t, dst)
	sets, err := out.ListCommandSets(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 || sets[0].Line() != "make build && make push" || len(sets[0].Tags) != 1 || sets[0].Description.String != "ship" {
		t.Fatalf("unexpected export: %+v", sets)
	}

	if _, err := Export(src, nil, dst); !errors.Is(err, ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
	if _, err := Export(src, []string{"missing"}, filepath.Join(dir, "x.db")); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
