// Package solver implements the constraint store: a union-find forest over
// type variables whose classes may be bound to a concrete, forward or
// failure type.
package solver

import (
	"fmt"

	"duckcheck/internal/types"
)

// Store owns every type created during one analysis run. Parent, rank and
// binding tables are indexed by TypeID and only meaningful for variables.
type Store struct {
	types  *types.Interner
	parent []types.TypeID
	rank   []uint8
	bound  []types.TypeID

	trail     []undo
	snapshots int
	depth     int
	mark      types.TypeID
}

type undoField uint8

const (
	undoParent undoField = iota
	undoRank
	undoBound
)

type undo struct {
	field undoField
	index types.TypeID
	old   uint32
}

// NewStore returns an empty store with its own interner.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset discards every variable and binding. TypeIDs issued before the
// call must not be used afterwards.
func (s *Store) Reset() {
	s.types = types.NewInterner()
	s.parent = s.parent[:0]
	s.rank = s.rank[:0]
	s.bound = s.bound[:0]
	s.trail = s.trail[:0]
	s.snapshots, s.depth, s.mark = 0, 0, types.NoTypeID
	s.ensure()
}

// Types exposes the interner backing this store.
func (s *Store) Types() *types.Interner {
	return s.types
}

// ensure grows the tables to cover every TypeID the interner has issued.
func (s *Store) ensure() {
	for id := len(s.parent); id < s.types.Len(); id++ {
		s.parent = append(s.parent, types.TypeID(id)) //nolint:gosec // bounded by interner length
		s.rank = append(s.rank, 0)
		s.bound = append(s.bound, types.NoTypeID)
	}
}

func (s *Store) owns(id types.TypeID) {
	if int(id) >= s.types.Len() {
		panic(fmt.Errorf("solver: type %d does not belong to this store", id))
	}
	s.ensure()
}

// Fresh returns a new, unbound type variable.
func (s *Store) Fresh() types.TypeID {
	v := s.types.NewVar()
	s.ensure()
	return v
}

// Fail records a failure and returns its type.
func (s *Store) Fail(kind types.FailKind, site types.Site, msg string) types.TypeID {
	id := s.types.NewFail(types.FailInfo{Kind: kind, Site: site, Message: msg})
	s.ensure()
	return id
}

func (s *Store) kind(id types.TypeID) types.Kind {
	return s.types.Kind(id)
}

func (s *Store) find(v types.TypeID) types.TypeID {
	root := v
	for s.parent[root] != root {
		root = s.parent[root]
	}
	// path compression is skipped while a snapshot is open so rollback stays exact
	if s.snapshots == 0 {
		for v != root {
			next := s.parent[v]
			s.parent[v] = root
			v = next
		}
	}
	return root
}

// class splits id into its class root (variables only) and the type the
// class is bound to. A free variable yields (root, NoTypeID); a non-variable
// yields (NoTypeID, id).
func (s *Store) class(id types.TypeID) (types.TypeID, types.TypeID) {
	s.owns(id)
	if s.kind(id) != types.KindVar {
		return types.NoTypeID, id
	}
	root := s.find(id)
	return root, s.bound[root]
}

// Shallow returns the binding of id's class, or its root when still free.
func (s *Store) Shallow(id types.TypeID) types.TypeID {
	if !id.IsValid() {
		return id
	}
	root, value := s.class(id)
	if value.IsValid() {
		return value
	}
	return root
}

// IsFree reports whether id denotes a still-unbound variable.
func (s *Store) IsFree(id types.TypeID) bool {
	return id.IsValid() && s.kind(s.Shallow(id)) == types.KindVar
}

// IsFail reports whether id currently resolves to a failure.
func (s *Store) IsFail(id types.TypeID) bool {
	return id.IsValid() && s.kind(s.Shallow(id)) == types.KindFail
}

// FailInfo returns the failure id resolves to, if any.
func (s *Store) FailInfo(id types.TypeID) (types.FailInfo, bool) {
	if !id.IsValid() {
		return types.FailInfo{}, false
	}
	return s.types.Fail(s.Shallow(id))
}

func (s *Store) setParent(v, p types.TypeID) {
	if s.snapshots > 0 {
		s.trail = append(s.trail, undo{field: undoParent, index: v, old: uint32(s.parent[v])})
	}
	s.parent[v] = p
}

func (s *Store) setRank(v types.TypeID, r uint8) {
	if s.snapshots > 0 {
		s.trail = append(s.trail, undo{field: undoRank, index: v, old: uint32(s.rank[v])})
	}
	s.rank[v] = r
}

func (s *Store) setBound(v, t types.TypeID) {
	if s.snapshots > 0 {
		s.trail = append(s.trail, undo{field: undoBound, index: v, old: uint32(s.bound[v])})
	}
	s.bound[v] = t
}

// link merges two class roots by rank; ties keep the older variable as root.
func (s *Store) link(a, b types.TypeID) types.TypeID {
	if a > b {
		a, b = b, a
	}
	switch {
	case s.rank[a] < s.rank[b]:
		s.setParent(a, b)
		return b
	case s.rank[a] > s.rank[b]:
		s.setParent(b, a)
		return a
	default:
		s.setParent(b, a)
		s.setRank(a, s.rank[a]+1)
		return a
	}
}

// Render prints id with every variable replaced by its binding.
func (s *Store) Render(id types.TypeID) string {
	return s.types.Render(id, s)
}
