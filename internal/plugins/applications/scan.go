package applications

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/VoxDroid/launchr/internal/plugins/catalog"
)

// dataDirs returns the XDG data directories in increasing priority:
// $XDG_DATA_DIRS in order, then $XDG_DATA_HOME. Unset variables take their
// defaults from the base directory specification.
func dataDirs(getenv func(string) string) []string {
	sys := getenv("XDG_DATA_DIRS")
	if sys == "" {
		sys = "/usr/local/share:/usr/share"
	}
	home := getenv("XDG_DATA_HOME")
	if home == "" {
		if h := getenv("HOME"); h != "" {
			home = filepath.Join(h, ".local", "share")
		}
	}
	var out []string
	for _, d := range append(strings.Split(sys, ":"), home) {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

type dirResult struct {
	items []catalog.Item
	errs  []string
}

// scan reads <dir>/applications/*.desktop of every dir concurrently. When
// two entries share a Name, the one from the later directory wins. Unreadable
// or missing directories are skipped; unreadable files are reported.
func scan(ctx context.Context, dirs []string, terminal string) catalog.Loaded {
	results := make([]dirResult, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, d := range dirs {
		i, d := i, d
		g.Go(func() error {
			results[i] = scanDir(ctx, filepath.Join(d, "applications"), terminal)
			return nil
		})
	}
	_ = g.Wait()

	byName := make(map[string]catalog.Item)
	var errs []string
	for _, r := range results {
		for _, it := range r.items {
			byName[it.Name] = it
		}
		errs = append(errs, r.errs...)
	}
	items := make([]catalog.Item, 0, len(byName))
	for _, it := range byName {
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b catalog.Item) int { return strings.Compare(a.Name, b.Name) })
	return catalog.Loaded{Items: items, Errs: errs}
}

func scanDir(ctx context.Context, dir, terminal string) dirResult {
	var res dirResult
	entries, err := os.ReadDir(dir)
	if err != nil {
		return res
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return res
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".desktop") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		it, ok, err := readEntry(path, terminal)
		if err != nil {
			res.errs = append(res.errs, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if ok {
			res.items = append(res.items, it)
		}
	}
	return res
}

func readEntry(path, terminal string) (catalog.Item, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return catalog.Item{}, false, err
	}
	defer func() { _ = f.Close() }()
	return parseEntry(f, terminal)
}
