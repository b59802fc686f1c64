// Package exporter writes command sets to a standalone database file that
// another launcher can import.
package exporter

import (
	"errors"
	"fmt"
	"os"

	"github.com/VoxDroid/launchr/internal/db"
	"github.com/VoxDroid/launchr/internal/registry"
)

// ErrDestinationExists is returned when the export file is already there.
var ErrDestinationExists = errors.New("export destination exists")

// Export copies the named sets from src, or every set when names is empty,
// into a new database at dstPath and returns how many were written. A
// missing name fails the export before anything is written.
func Export(src *registry.Repository, names []string, dstPath string) (int, error) {
	if _, err := os.Stat(dstPath); err == nil {
		return 0, fmt.Errorf("%w: %s", ErrDestinationExists, dstPath)
	}
	sets, err := collect(src, names)
	if err != nil {
		return 0, err
	}
	conn, err := db.Open(dstPath)
	if err != nil {
		return 0, fmt.Errorf("open export db: %w", err)
	}
	dst := registry.NewRepository(conn)
	defer func() { _ = dst.Close() }()

	for _, cs := range sets {
		if _, err := dst.Put(cs); err != nil {
			return 0, fmt.Errorf("export %q: %w", cs.Name, err)
		}
	}
	return len(sets), nil
}

func collect(src *registry.Repository, names []string) ([]registry.CommandSet, error) {
	if len(names) == 0 {
		return src.ListCommandSets(true)
	}
	out := make([]registry.CommandSet, 0, len(names))
	for _, n := range names {
		cs, err := src.GetCommandSetByName(n)
		if err != nil {
			return nil, err
		}
		out = append(out, *cs)
	}
	return out, nil
}
