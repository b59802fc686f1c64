package host

import (
	"go.uber.org/zap"

	"github.com/VoxDroid/launchr/contract"
	"github.com/VoxDroid/launchr/internal/aggregate"
)

// Router dispatches events to instances. It must be driven from a single
// goroutine; tasks it returns may run anywhere.
type Router struct {
	reg    *Registry
	filter string
	log    *zap.Logger
}

// NewRouter returns a Router over reg with an empty filter.
func NewRouter(reg *Registry) *Router {
	return &Router{reg: reg, log: reg.log}
}

// Registry returns the instances the router dispatches to.
func (r *Router) Registry() *Registry { return r.reg }

// Filter returns the current filter text.
func (r *Router) Filter() string { return r.filter }

// SetFilter stores text as the current filter and calls Sort on every
// instance in load order.
func (r *Router) SetFilter(text string) []Pending {
	r.filter = text
	r.log.Debug("filter changed", zap.String("filter", text))
	var out []Pending
	for _, in := range r.reg.instances {
		task := r.reg.withMut(in, "sort", func(m *contract.Mut) contract.Task {
			return in.table.Sort(text, m)
		})
		if task != nil {
			out = append(out, Pending{Index: in.Index, Task: task})
		}
	}
	return out
}

// Deliver hands a completion to the Update function of the instance that
// produced it, with the current filter. Completions are never dropped for
// being stale. A nil message is ignored.
func (r *Router) Deliver(c Completion) []Pending {
	in, ok := r.reg.Instance(c.Index)
	if !ok {
		r.log.Error("completion for unknown instance", zap.Int("index", c.Index))
		return nil
	}
	if c.Msg == nil {
		return nil
	}
	if f, isFailure := c.Msg.(TaskFailure); isFailure {
		in.fault(f.Err.Error())
		r.log.Error("plugin task failed", zap.String("plugin", in.Name), zap.Error(f.Err))
		return nil
	}
	r.log.Debug("deliver", zap.String("plugin", in.Name))
	task := r.reg.withMut(in, "update", func(m *contract.Mut) contract.Task {
		return in.table.Update(r.filter, m, c.Msg)
	})
	if task == nil {
		return nil
	}
	return []Pending{{Index: in.Index, Task: task}}
}

// Launch resolves focus in list to its origin instance and local rank and
// calls that instance's Launch. It reports false when the list has nothing
// at focus.
func (r *Router) Launch(list aggregate.List, focus int) ([]Pending, bool) {
	origin, local, ok := list.Resolve(focus)
	if !ok {
		r.log.Debug("launch with nothing focused", zap.Int("focus", focus))
		return nil, false
	}
	in, ok := r.reg.Instance(origin)
	if !ok {
		return nil, false
	}
	r.log.Info("launch", zap.String("plugin", in.Name), zap.Int("local", local))
	task := r.reg.withMut(in, "launch", func(m *contract.Mut) contract.Task {
		return in.table.Launch(local, m)
	})
	if task == nil {
		return nil, true
	}
	return []Pending{{Index: in.Index, Task: task}}, true
}
