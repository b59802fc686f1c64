package store

import (
	"testing"

	"github.com/VoxDroid/launchr/contract"
)

type state struct{ hits int }

func TestAddAssignsSequentialIndexes(t *testing.T) {
	s := New()
	for want := 0; want < 3; want++ {
		if got := s.Add(&state{}); got != want {
			t.Fatalf("Add() = %d, want %d", got, want)
		}
	}
	if s.Len() != 3 {
		t.Fatalf("Len() = %d", s.Len())
	}
	if s.Kind(1) != "*store.state" {
		t.Fatalf("Kind(1) = %q", s.Kind(1))
	}
}

func TestWithMutReleasesAfterCall(t *testing.T) {
	s := New()
	idx := s.Add(&state{})
	for i := 0; i < 3; i++ {
		s.WithMut(idx, func(m *contract.Mut) {
			st, err := contract.Mutable[*state](m)
			if err != nil {
				t.Fatalf("Mutable: %v", err)
			}
			st.hits++
		})
	}
	s.WithRef(idx, func(r *contract.Ref) {
		st, _ := contract.Shared[*state](r)
		if st.hits != 3 {
			t.Fatalf("hits = %d, want 3", st.hits)
		}
	})
}

func TestWithMutReleasesOnPanic(t *testing.T) {
	s := New()
	idx := s.Add(&state{})
	func() {
		defer func() { _ = recover() }()
		s.WithMut(idx, func(*contract.Mut) { panic("plugin bug") })
	}()
	// a leaked borrow would make this panic
	s.WithMut(idx, func(*contract.Mut) {})
}

func TestNestedMutFailsFast(t *testing.T) {
	s := New()
	idx := s.Add(&state{})
	defer func() {
		if _, ok := recover().(*contract.BorrowError); !ok {
			t.Fatalf("expected BorrowError on nested write borrow")
		}
	}()
	s.WithRef(idx, func(*contract.Ref) {
		s.WithMut(idx, func(*contract.Mut) {})
	})
}

func TestUnknownIndexPanics(t *testing.T) {
	s := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown index")
		}
	}()
	s.WithRef(4, func(*contract.Ref) {})
}
