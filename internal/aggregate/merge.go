// Package aggregate merges the ranked views of every plugin into one list and
// keeps a single focus cursor on it.
package aggregate

import (
	"slices"

	"github.com/VoxDroid/launchr/contract"
)

// View is one plugin's contribution to a redraw. A View with a non-nil Err
// contributes no entries.
type View struct {
	Origin  int
	Entries []contract.Scored
	Err     error
}

// Entry is a scored renderable tagged with the instance that produced it.
type Entry struct {
	Score  int64
	Item   contract.Renderable
	Origin int
}

// List is the merged, ordered and truncated result of one redraw.
type List []Entry

// Merge concatenates views in the given order, sorts by score descending
// keeping the concatenation order for equal scores, and truncates to max.
// A max below zero is treated as zero.
func Merge(views []View, max int) List {
	var all List
	for _, v := range views {
		if v.Err != nil {
			continue
		}
		for _, s := range v.Entries {
			all = append(all, Entry{Score: s.Score, Item: s.Item, Origin: v.Origin})
		}
	}
	slices.SortStableFunc(all, func(a, b Entry) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	if max < 0 {
		max = 0
	}
	if len(all) > max {
		all = all[:max]
	}
	return all
}

// Resolve maps a position in the list to the origin instance and the rank of
// that entry among the entries of the same origin.
func (l List) Resolve(global int) (origin, local int, ok bool) {
	if global < 0 || global >= len(l) {
		return 0, 0, false
	}
	origin = l[global].Origin
	for i := 0; i < global; i++ {
		if l[i].Origin == origin {
			local++
		}
	}
	return origin, local, true
}
