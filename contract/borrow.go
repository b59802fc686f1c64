package contract

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrModelType is returned when a borrowed model is not of the type the
// plugin expects.
var ErrModelType = errors.New("model type mismatch")

// BorrowError is the panic value raised when the single-writer discipline of
// a Cell is violated. It is never recovered by the host.
type BorrowError struct {
	Owner  int
	Op     string
	Reason string
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("model %d: %s: %s", e.Owner, e.Op, e.Reason)
}

// Cell holds one plugin's model together with the index of the instance that
// owns it. It hands out either one exclusive borrow or any number of shared
// borrows at a time.
type Cell struct {
	owner int
	value any
	kind  string
	// 0 free, -1 exclusively borrowed, n > 0 shared by n readers
	state atomic.Int32
}

// NewCell wraps value for the instance with the given index.
func NewCell(owner int, value any) *Cell {
	return &Cell{owner: owner, value: value, kind: fmt.Sprintf("%T", value)}
}

// Owner returns the index of the owning instance.
func (c *Cell) Owner() int { return c.owner }

// Kind returns the dynamic type name of the stored model.
func (c *Cell) Kind() string { return c.kind }

// Mut acquires the exclusive borrow. It panics if any borrow is outstanding.
func (c *Cell) Mut() *Mut {
	if !c.state.CompareAndSwap(0, -1) {
		panic(&BorrowError{Owner: c.owner, Op: "borrow mut", Reason: c.describe()})
	}
	return &Mut{cell: c}
}

// Ref acquires a shared borrow. It panics if the exclusive borrow is held.
func (c *Cell) Ref() *Ref {
	for {
		n := c.state.Load()
		if n < 0 {
			panic(&BorrowError{Owner: c.owner, Op: "borrow ref", Reason: c.describe()})
		}
		if c.state.CompareAndSwap(n, n+1) {
			return &Ref{cell: c}
		}
	}
}

func (c *Cell) describe() string {
	n := c.state.Load()
	switch {
	case n < 0:
		return "already mutably borrowed"
	case n > 0:
		return fmt.Sprintf("%d shared borrows outstanding", n)
	default:
		return "not borrowed"
	}
}

// Mut is an exclusive borrow of a model, valid until Release.
type Mut struct {
	cell     *Cell
	released atomic.Bool
}

// Owner returns the index of the instance owning the borrowed model.
func (m *Mut) Owner() int { return m.cell.owner }

// Value returns the borrowed model. It panics after Release.
func (m *Mut) Value() any {
	m.check("value")
	return m.cell.value
}

// Set replaces the borrowed model. It panics after Release.
func (m *Mut) Set(v any) {
	m.check("set")
	m.cell.value = v
	m.cell.kind = fmt.Sprintf("%T", v)
}

// Release ends the borrow. Releasing twice is a no-op.
func (m *Mut) Release() {
	if m.released.Swap(true) {
		return
	}
	m.cell.state.Store(0)
}

func (m *Mut) check(op string) {
	if m.released.Load() {
		panic(&BorrowError{Owner: m.cell.owner, Op: op, Reason: "mutable borrow used after release"})
	}
}

// Ref is a shared borrow of a model, valid until Release.
type Ref struct {
	cell     *Cell
	released atomic.Bool
}

// Owner returns the index of the instance owning the borrowed model.
func (r *Ref) Owner() int { return r.cell.owner }

// Value returns the borrowed model. Callers must not mutate it. It panics
// after Release.
func (r *Ref) Value() any {
	if r.released.Load() {
		panic(&BorrowError{Owner: r.cell.owner, Op: "value", Reason: "shared borrow used after release"})
	}
	return r.cell.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (r *Ref) Release() {
	if r.released.Swap(true) {
		return
	}
	r.cell.state.Add(-1)
}

// Mutable downcasts an exclusive borrow to the plugin's model type.
func Mutable[T any](m *Mut) (T, error) {
	var zero T
	if m == nil {
		return zero, fmt.Errorf("%w: nil borrow", ErrModelType)
	}
	v, ok := m.Value().(T)
	if !ok {
		return zero, fmt.Errorf("%w: have %s, want %T", ErrModelType, m.cell.kind, zero)
	}
	return v, nil
}

// Shared downcasts a shared borrow to the plugin's model type.
func Shared[T any](r *Ref) (T, error) {
	var zero T
	if r == nil {
		return zero, fmt.Errorf("%w: nil borrow", ErrModelType)
	}
	v, ok := r.Value().(T)
	if !ok {
		return zero, fmt.Errorf("%w: have %s, want %T", ErrModelType, r.cell.kind, zero)
	}
	return v, nil
}
