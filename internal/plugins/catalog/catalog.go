// Package catalog is the ranked candidate set shared by the built-in plugins.
// A plugin keeps a Catalog in its model, fills it from a Loaded message and
// re-ranks it off the control loop on every filter change.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/VoxDroid/launchr/contract"
	"github.com/VoxDroid/launchr/internal/scorer"
)

// DefaultMax is the number of entries a plugin shows when not configured.
const DefaultMax = 7

// ErrOutOfRange is returned by At for an index the catalog is not showing.
var ErrOutOfRange = errors.New("entry index out of range")

// Item is one launchable candidate.
type Item struct {
	Name        string
	Description string
	Tags        []string
	// Command is what the owning plugin runs on launch.
	Command string
}

// Loaded delivers a freshly scanned item set, plus any non-fatal errors the
// scan ran into.
type Loaded struct {
	Items []Item
	Errs  []string
}

// Sorted carries the ranking of a snapshot of the items for Query. Gen is
// the item generation the snapshot was taken from.
type Sorted struct {
	Query  string
	Gen    int
	Ranked []scorer.Ranked[Item]
}

// Launched reports the outcome of a launch task.
type Launched struct {
	Name string
	PID  int
	Err  error
}

// Catalog holds the items of a plugin and their current ranking.
type Catalog struct {
	Max       int
	Threshold int64

	items  []Item
	gen    int
	ranked []scorer.Ranked[Item]
	query  string
	errs   []string
}

// New returns an empty Catalog. Non-positive limits fall back to the
// defaults.
func New(max int, threshold int64) *Catalog {
	if max <= 0 {
		max = DefaultMax
	}
	if threshold <= 0 {
		threshold = scorer.DefaultThreshold
	}
	return &Catalog{Max: max, Threshold: threshold}
}

// Len returns the number of known items.
func (c *Catalog) Len() int { return len(c.items) }

// Query returns the query the current ranking was computed for.
func (c *Catalog) Query() string { return c.query }

// SortTask returns a task ranking a snapshot of the current items against
// filter. It does not touch c when run.
func (c *Catalog) SortTask(filter string) contract.Task {
	items := slices.Clone(c.items)
	threshold, gen := c.Threshold, c.gen
	return func() contract.Msg {
		return Sorted{Query: filter, Gen: gen, Ranked: rank(items, filter, threshold)}
	}
}

func rank(items []Item, query string, threshold int64) []scorer.Ranked[Item] {
	cands := make([]scorer.Candidate[Item], len(items))
	for i, it := range items {
		tags := it.Tags
		if it.Description != "" {
			tags = append(slices.Clone(it.Tags), it.Description)
		}
		cands[i] = scorer.Candidate[Item]{Label: it.Name, Tags: tags, Value: it}
	}
	return scorer.Rank(cands, query, threshold)
}

// Handle applies a message produced by one of the catalog's tasks. A Loaded
// message replaces the items and returns a task re-ranking them for filter.
// A Sorted message is applied only if it was computed for filter from the
// current items; results for an older query or item set are ignored. A failed Launched is recorded. Any other
// message is recorded as an error.
func (c *Catalog) Handle(filter string, msg contract.Msg) contract.Task {
	switch m := msg.(type) {
	case Loaded:
		c.items = m.Items
		c.gen++
		c.errs = append(c.errs, m.Errs...)
		return c.SortTask(filter)
	case Sorted:
		if m.Query != filter || m.Gen != c.gen {
			return nil
		}
		c.ranked = m.Ranked
		c.query = m.Query
	case Launched:
		if m.Err != nil {
			c.Fail("launch %s: %v", m.Name, m.Err)
		}
	default:
		c.Fail("unexpected message %T", msg)
	}
	return nil
}

// View returns the visible ranking, at most Max entries, best first.
func (c *Catalog) View() []contract.Scored {
	vis := c.visible()
	out := make([]contract.Scored, len(vis))
	for i, r := range vis {
		out[i] = contract.Scored{Score: r.Score, Item: Card{Title: r.Value.Name, Detail: r.Value.Description}}
	}
	return out
}

// Count returns the number of visible entries.
func (c *Catalog) Count() int { return len(c.visible()) }

// At returns the visible item at index.
func (c *Catalog) At(index int) (Item, error) {
	vis := c.visible()
	if index < 0 || index >= len(vis) {
		return Item{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, len(vis))
	}
	return vis[index].Value, nil
}

// LaunchTask returns a task starting the visible item at index with start.
// An index outside the visible entries is recorded as an error and no task
// is returned.
func (c *Catalog) LaunchTask(index int, start func(Item) (int, error)) contract.Task {
	it, err := c.At(index)
	if err != nil {
		c.Fail("launch: %v", err)
		return nil
	}
	return func() contract.Msg {
		pid, err := start(it)
		return Launched{Name: it.Name, PID: pid, Err: err}
	}
}

func (c *Catalog) visible() []scorer.Ranked[Item] {
	if len(c.ranked) > c.Max {
		return c.ranked[:c.Max]
	}
	return c.ranked
}

// Fail records a non-fatal error.
func (c *Catalog) Fail(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// Errors returns the recorded errors, oldest first.
func (c *Catalog) Errors() []string { return slices.Clone(c.errs) }
