// Package importer merges command sets from an exported database into the
// active one.
package importer

import (
	"errors"
	"fmt"
	"os"

	"github.com/VoxDroid/launchr/internal/db"
	"github.com/VoxDroid/launchr/internal/registry"
)

// Import copies every set of the database at srcPath into dst and returns
// the names they were stored under. A set whose name is taken is stored as
// <name>-import-<n>.
func Import(dst *registry.Repository, srcPath string) ([]string, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	conn, err := db.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	src := registry.NewRepository(conn)
	defer func() { _ = src.Close() }()

	sets, err := src.ListCommandSets(true)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, cs := range sets {
		name, err := uniqueName(dst, cs.Name)
		if err != nil {
			return names, err
		}
		cs.Name = name
		if _, err := dst.Put(cs); err != nil {
			return names, fmt.Errorf("import %q: %w", name, err)
		}
		names = append(names, name)
	}
	return names, nil
}

func uniqueName(dst *registry.Repository, orig string) (string, error) {
	name := orig
	for i := 1; ; i++ {
		_, err := dst.GetCommandSetByName(name)
		if errors.Is(err, registry.ErrNotFound) {
			return name, nil
		}
		if err != nil {
			return "", err
		}
		name = fmt.Sprintf("%s-import-%d", orig, i)
	}
}
