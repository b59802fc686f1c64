package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/VoxDroid/launchr/contract"
)

func run(t *testing.T, task contract.Task) contract.Msg {
	t.Helper()
	if task == nil {
		t.Fatalf("expected a task")
	}
	return task()
}

func loaded(c *Catalog, filter string, items ...Item) contract.Task {
	return c.Handle(filter, Loaded{Items: items})
}

func TestLoadedThenSorted(t *testing.T) {
	c := New(7, 0)
	task := loaded(c, "firefox", Item{Name: "Firefox", Command: "firefox"}, Item{Name: "Thunderbird"})
	if c.Count() != 0 {
		t.Fatalf("nothing is visible before the ranking arrives")
	}
	if next := c.Handle("firefox", run(t, task)); next != nil {
		t.Fatalf("sorted results produce no follow-up")
	}
	if c.Count() != 1 {
		t.Fatalf("expected one match, got %d", c.Count())
	}
	it, err := c.At(0)
	if err != nil || it.Command != "firefox" {
		t.Fatalf("At(0) = %+v, %v", it, err)
	}
	view := c.View()
	if len(view) != 1 || view[0].Score < c.Threshold {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestStaleSortIgnored(t *testing.T) {
	c := New(7, 0)
	c.Handle("", Loaded{Items: []Item{{Name: "Firefox"}}})
	old := c.SortTask("firefox")
	newer := c.SortTask("zzz")
	c.Handle("zzz", run(t, newer))
	c.Handle("zzz", run(t, old))
	if c.Query() != "zzz" || c.Count() != 0 {
		t.Fatalf("stale ranking applied: query=%q count=%d", c.Query(), c.Count())
	}
}

func TestSortTaskUsesSnapshot(t *testing.T) {
	c := New(7, 0)
	c.Handle("", Loaded{Items: []Item{{Name: "Firefox"}}})
	task := c.SortTask("firefox")
	c.Handle("", Loaded{Items: nil})
	msg := run(t, task).(Sorted)
	if len(msg.Ranked) != 1 {
		t.Fatalf("task should rank the items it was created with, got %+v", msg.Ranked)
	}
}

func TestViewTruncatesToMax(t *testing.T) {
	c := New(2, 0)
	task := loaded(c, "firefox", Item{Name: "Firefox"}, Item{Name: "Firefox"}, Item{Name: "Firefox"})
	c.Handle("firefox", run(t, task))
	if c.Count() != 2 || len(c.View()) != 2 {
		t.Fatalf("view should hold at most Max entries, got %d", c.Count())
	}
	if _, err := c.At(2); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("At past the visible entries should fail, got %v", err)
	}
	if _, err := c.At(-1); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("negative index should fail, got %v", err)
	}
}

func TestDescriptionIsSearchable(t *testing.T) {
	c := New(7, 0)
	task := loaded(c, "firefox", Item{Name: "Browser", Description: "firefox"})
	c.Handle("firefox", run(t, task))
	if c.Count() != 1 {
		t.Fatalf("description should be matched like a tag")
	}
}

func TestUnexpectedMessageRecorded(t *testing.T) {
	c := New(7, 0)
	c.Handle("", 42)
	errs := c.Errors()
	if len(errs) != 1 || !strings.Contains(errs[0], "int") {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestLoadedErrorsKept(t *testing.T) {
	c := New(7, 0)
	c.Handle("", Loaded{Errs: []string{"bad file"}})
	if errs := c.Errors(); len(errs) != 1 || errs[0] != "bad file" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestCardRender(t *testing.T) {
	card := Card{Title: "Firefox", Detail: "Web Browser"}
	if out := card.Render(80, false); !strings.Contains(out, "Firefox") || !strings.Contains(out, "Web Browser") {
		t.Fatalf("unexpected render: %q", out)
	}
	if out := card.Render(80, true); !strings.Contains(out, "Firefox") {
		t.Fatalf("unexpected focused render: %q", out)
	}
}

func TestLaunchedFailureRecorded(t *testing.T) {
	c := New(7, 0)
	c.Handle("", Launched{Name: "Firefox", PID: 10})
	if len(c.Errors()) != 0 {
		t.Fatalf("successful launch should not be an error")
	}
	c.Handle("", Launched{Name: "Firefox", Err: errors.New("not found")})
	if errs := c.Errors(); len(errs) != 1 || !strings.Contains(errs[0], "Firefox") {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestLaunchTask(t *testing.T) {
	c := New(7, 0)
	c.Handle("firefox", run(t, loaded(c, "firefox", Item{Name: "Firefox", Command: "firefox"})))

	if task := c.LaunchTask(3, nil); task != nil {
		t.Fatalf("out of range launch should not return a task")
	}
	if errs := c.Errors(); len(errs) != 1 || !strings.Contains(errs[0], "out of range") {
		t.Fatalf("missing target should be recorded: %v", errs)
	}

	var started string
	msg := run(t, c.LaunchTask(0, func(it Item) (int, error) {
		started = it.Command
		return 42, nil
	}))
	if l, ok := msg.(Launched); !ok || l.PID != 42 || started != "firefox" {
		t.Fatalf("unexpected launch result %+v, started %q", msg, started)
	}
}

func TestSortFromOlderItemsIgnored(t *testing.T) {
	c := New(7, 0)
	early := c.SortTask("firefox")
	fresh := loaded(c, "firefox", Item{Name: "Firefox"})
	c.Handle("firefox", run(t, fresh))
	c.Handle("firefox", run(t, early))
	if c.Count() != 1 {
		t.Fatalf("ranking of the empty set replaced the loaded one: count=%d", c.Count())
	}
}
