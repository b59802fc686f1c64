// Package host owns the loaded plugin instances, routes events to their
// contract entry points and collects their views for the aggregator.
package host

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/VoxDroid/launchr/contract"
	"github.com/VoxDroid/launchr/internal/aggregate"
	"github.com/VoxDroid/launchr/internal/loader"
	"github.com/VoxDroid/launchr/internal/store"
	"github.com/VoxDroid/launchr/internal/tui/sanitize"
)

// Instance is one loaded plugin bound to a stable index.
type Instance struct {
	Index  int
	Name   string
	Source loader.Source
	Path   string

	table  loader.Table
	faults []string
}

// Faults returns the errors the host recorded for this instance: panics in
// contract calls or tasks, and failed tasks.
func (in *Instance) Faults() []string { return append([]string(nil), in.faults...) }

// PluginErrors is the error panel content of one instance.
type PluginErrors struct {
	Index    int
	Name     string
	Messages []string
}

// Registry is the set of loaded instances and their models.
type Registry struct {
	store     *store.Store
	instances []*Instance
	log       *zap.Logger
}

// New builds a Registry from bound plugins in load order. Each plugin gets the
// next index and its constructor is called with cfg; the returned tasks are
// the constructors' follow-up work. A constructor that panics leaves a nil
// model and a recorded fault.
func New(plugins []loader.Plugin, cfg contract.Config, log *zap.Logger) (*Registry, []Pending) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{store: store.New(), log: log}
	var pending []Pending
	for _, p := range plugins {
		in := &Instance{Name: p.Name, Source: p.Source, Path: p.Path, table: p.Table}
		var (
			model any
			task  contract.Task
		)
		r.guard(in, "model", func() { model, task = p.Table.Model(cfg) })
		in.Index = r.store.Add(model)
		r.instances = append(r.instances, in)
		r.guard(in, "name", func() {
			if n := p.Table.Name(); n != "" {
				in.Name = n
			}
		})
		if task != nil {
			pending = append(pending, Pending{Index: in.Index, Task: task})
		}
		r.log.Debug("instance created", zap.Int("index", in.Index), zap.String("name", in.Name), zap.String("model", r.store.Kind(in.Index)))
	}
	return r, pending
}

// Len returns the number of instances.
func (r *Registry) Len() int { return len(r.instances) }

// Instances returns the instances in load order.
func (r *Registry) Instances() []*Instance { return append([]*Instance(nil), r.instances...) }

// Instance returns the instance with the given index.
func (r *Registry) Instance(index int) (*Instance, bool) {
	if index < 0 || index >= len(r.instances) {
		return nil, false
	}
	return r.instances[index], true
}

// Views calls View on every instance in load order. A failing or panicking
// View yields a View with Err set.
func (r *Registry) Views() []aggregate.View {
	out := make([]aggregate.View, 0, len(r.instances))
	for _, in := range r.instances {
		v := aggregate.View{Origin: in.Index}
		ok := r.guard(in, "view", func() {
			r.store.WithRef(in.Index, func(ref *contract.Ref) {
				v.Entries, v.Err = in.table.View(ref)
			})
		})
		if !ok && v.Err == nil {
			v.Err = fmt.Errorf("view of %s panicked", in.Name)
		}
		if v.Err != nil {
			v.Entries = nil
			r.log.Debug("view failed", zap.String("plugin", in.Name), zap.Error(v.Err))
		}
		out = append(out, v)
	}
	return out
}

// Merge collects every view and merges them into one list of at most max
// entries.
func (r *Registry) Merge(max int) aggregate.List {
	return aggregate.Merge(r.Views(), max)
}

// Errors returns the error panel content of every instance that has any,
// host faults first. Messages are reduced to single printable lines.
func (r *Registry) Errors() []PluginErrors {
	var out []PluginErrors
	for _, in := range r.instances {
		var msgs []string
		msgs = append(msgs, in.faults...)
		r.guard(in, "errors", func() {
			r.store.WithRef(in.Index, func(ref *contract.Ref) {
				msgs = append(msgs, in.table.Errors(ref)...)
			})
		})
		clean := msgs[:0]
		for _, m := range msgs {
			if s := sanitize.Line(m); s != "" {
				clean = append(clean, s)
			}
		}
		if len(clean) > 0 {
			out = append(out, PluginErrors{Index: in.Index, Name: in.Name, Messages: clean})
		}
	}
	return out
}

// Count returns the number of entries every instance reports it is
// contributing, summed. Negative counts are ignored.
func (r *Registry) Count() int {
	total := 0
	for _, in := range r.instances {
		r.guard(in, "count", func() {
			r.store.WithRef(in.Index, func(ref *contract.Ref) {
				if n := in.table.Count(ref); n > 0 {
					total += n
				}
			})
		})
	}
	return total
}

func (r *Registry) withMut(in *Instance, op string, fn func(m *contract.Mut) contract.Task) contract.Task {
	var task contract.Task
	r.guard(in, op, func() {
		r.store.WithMut(in.Index, func(m *contract.Mut) { task = fn(m) })
	})
	return task
}

// guard runs fn and turns a panic into a fault on in. Borrow violations are
// not recovered.
func (r *Registry) guard(in *Instance, op string, fn func()) (ok bool) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if be, isBorrow := v.(*contract.BorrowError); isBorrow {
			panic(be)
		}
		in.fault(fmt.Sprintf("%s panicked: %v", op, v))
		r.log.Error("plugin panicked", zap.String("plugin", in.Name), zap.String("op", op), zap.Any("value", v))
		ok = false
	}()
	fn()
	return true
}

func (in *Instance) fault(msg string) {
	in.faults = append(in.faults, msg)
}
