package solver

import (
	"duckcheck/internal/types"
)

const maxDepth = 64

// Unify asserts that a and b denote the same type without a node context.
func (s *Store) Unify(a, b types.TypeID) types.TypeID {
	return s.UnifyAt(types.Site{}, a, b)
}

// UnifyAt asserts that expected and actual denote the same type and returns
// the representative of the merged class: a concrete, forward or failure
// type, or the class root when both sides are still free.
//
// Failures dominate: Fail+Fail keeps the older failure, Fail+X yields the
// failure. A structural mismatch between two concrete types creates a new
// failure reported at site. Interned concrete types are never rebound; only
// variable classes take on the result.
func (s *Store) UnifyAt(site types.Site, expected, actual types.TypeID) types.TypeID {
	if s.depth == 0 {
		s.mark = types.TypeID(s.types.Len()) //nolint:gosec // bounded by interner length
	}
	s.depth++
	defer func() { s.depth-- }()
	return s.unify(site, expected, actual)
}

// TryUnify behaves like UnifyAt but leaves the store untouched when the
// result is a failure. ok is false in that case.
func (s *Store) TryUnify(site types.Site, expected, actual types.TypeID) (types.TypeID, bool) {
	snap := s.snapshot()
	res := s.UnifyAt(site, expected, actual)
	if s.kind(res) == types.KindFail {
		s.rollback(snap)
		return res, false
	}
	s.commit()
	return res, true
}

func (s *Store) unify(site types.Site, a, b types.TypeID) types.TypeID {
	ra, va := s.class(a)
	rb, vb := s.class(b)
	if ra.IsValid() && ra == rb {
		return s.Shallow(ra)
	}

	var result types.TypeID
	switch {
	case !va.IsValid():
		result = vb
	case !vb.IsValid():
		result = va
	default:
		result = s.combine(site, va, vb)
	}

	if result.IsValid() && s.kind(result) == types.KindConcrete {
		if (ra.IsValid() && !va.IsValid() && s.occurs(ra, result, 0)) ||
			(rb.IsValid() && !vb.IsValid() && s.occurs(rb, result, 0)) {
			result = s.Fail(types.FailUnification, site,
				types.ConflictMessage(site, s.Render(a), s.Render(b)))
		}
	}

	root := types.NoTypeID
	switch {
	case ra.IsValid() && rb.IsValid():
		root = s.link(ra, rb)
	case ra.IsValid():
		root = ra
	case rb.IsValid():
		root = rb
	}
	if !root.IsValid() {
		return result
	}
	if result.IsValid() {
		s.setBound(root, result)
		return result
	}
	return root
}

// combine merges two non-variable types.
func (s *Store) combine(site types.Site, x, y types.TypeID) types.TypeID {
	if x == y {
		return x
	}
	kx, ky := s.kind(x), s.kind(y)
	switch {
	case kx == types.KindFail && ky == types.KindFail:
		return min(x, y)
	case kx == types.KindFail:
		return x
	case ky == types.KindFail:
		return y
	case s.types.IsNamed(x, types.NameAny):
		return y
	case s.types.IsNamed(y, types.NameAny):
		return x
	}

	if kx == types.KindConcrete && ky == types.KindConcrete {
		tx, ty := s.types.MustLookup(x), s.types.MustLookup(y)
		ax, ay := s.types.Args(x), s.types.Args(y)
		if tx.Name == ty.Name && len(ax) == len(ay) {
			expected, actual := s.Render(x), s.Render(y)
			for i := range ax {
				r := s.unify(site, ax[i], ay[i])
				if s.kind(r) != types.KindFail {
					continue
				}
				if r < s.mark {
					// an older failure inside the arguments propagates as is
					return r
				}
				return s.Fail(types.FailUnification, site, types.ConflictMessage(site, expected, actual))
			}
			return x
		}
	}
	return s.Fail(types.FailUnification, site, types.ConflictMessage(site, s.Render(x), s.Render(y)))
}

// occurs reports whether the class root appears inside t.
func (s *Store) occurs(root, t types.TypeID, depth int) bool {
	if depth > maxDepth {
		return true
	}
	t = s.Shallow(t)
	if t == root {
		return true
	}
	for _, arg := range s.types.Args(t) {
		if s.occurs(root, arg, depth+1) {
			return true
		}
	}
	return false
}

func (s *Store) snapshot() int {
	s.snapshots++
	return len(s.trail)
}

func (s *Store) rollback(n int) {
	for len(s.trail) > n {
		u := s.trail[len(s.trail)-1]
		s.trail = s.trail[:len(s.trail)-1]
		switch u.field {
		case undoParent:
			s.parent[u.index] = types.TypeID(u.old)
		case undoRank:
			s.rank[u.index] = uint8(u.old) //nolint:gosec // ranks are stored as uint8
		case undoBound:
			s.bound[u.index] = types.TypeID(u.old)
		}
	}
	s.snapshots--
}

func (s *Store) commit() {
	s.snapshots--
	if s.snapshots == 0 {
		s.trail = s.trail[:0]
	}
}
