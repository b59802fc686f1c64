// Package store keeps every plugin instance's model behind a single-writer
// cell, keyed by instance index.
package store

import (
	"fmt"

	"github.com/VoxDroid/launchr/contract"
)

// Store owns the models of all loaded plugin instances. Indexes are assigned
// sequentially by Add and never reused.
type Store struct {
	cells []*contract.Cell
}

// New returns an empty Store.
func New() *Store { return &Store{} }

// Add stores model under the next free index and returns that index.
func (s *Store) Add(model any) int {
	idx := len(s.cells)
	s.cells = append(s.cells, contract.NewCell(idx, model))
	return idx
}

// Len returns the number of stored models.
func (s *Store) Len() int { return len(s.cells) }

// Kind returns the dynamic type name of the model at owner.
func (s *Store) Kind(owner int) string { return s.cell(owner).Kind() }

// WithMut runs fn with an exclusive borrow of the model owned by owner. The
// borrow is released when fn returns, including when it panics.
func (s *Store) WithMut(owner int, fn func(m *contract.Mut)) {
	m := s.cell(owner).Mut()
	defer m.Release()
	fn(m)
}

// WithRef runs fn with a shared borrow of the model owned by owner.
func (s *Store) WithRef(owner int, fn func(r *contract.Ref)) {
	r := s.cell(owner).Ref()
	defer r.Release()
	fn(r)
}

func (s *Store) cell(owner int) *contract.Cell {
	if owner < 0 || owner >= len(s.cells) {
		panic(fmt.Sprintf("store: no model for instance %d", owner))
	}
	c := s.cells[owner]
	if c.Owner() != owner {
		panic(&contract.BorrowError{Owner: owner, Op: "lookup", Reason: fmt.Sprintf("cell belongs to instance %d", c.Owner())})
	}
	return c
}
