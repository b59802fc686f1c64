package importer

import (
	"path/filepath"
	"slices"
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

func TestImportRenamesCollisions(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.db")
	src := open(t, srcPath)
	for _, n := range []string{"build", "test"} {
		if _, err := src.CreateCommandSet(n, "", []string{"make " + n}); err != nil {
			t.Fatal(err)
		}
	}
	if err := src.AddTag("test", "ci"); err != nil {
		t.Fatal(err)
	}
	_ = src.Close()

	dst := open(t, filepath.Join(dir, "dst.db"))
	if _, err := dst.CreateCommandSet("test", "", []string{"go test ./..."}); err != nil {
		t.Fatal(err)
	}
	if _, err := dst.CreateCommandSet("test-import-1", "", []string{"true"}); err != nil {
		t.Fatal(err)
	}

	names, err := Import(dst, srcPath)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !slices.Equal(names, []string{"build", "test-import-2"}) {
		t.Fatalf("unexpected names: %v", names)
	}
	cs, err := dst.GetCommandSetByName("test-import-2")
	if err != nil {
		t.Fatal(err)
	}
	if cs.Line() != "make test" || !slices.Equal(cs.Tags, []string{"ci"}) {
		t.Fatalf("unexpected imported set: %+v", cs)
	}
}

func TestImportMissingSource(t *testing.T) {
	dst := open(t, filepath.Join(t.TempDir(), "dst.db"))
	if _, err := Import(dst, filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Fatalf("expected error for a missing source")
	}
}
