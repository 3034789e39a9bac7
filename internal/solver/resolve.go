package solver

import "duckcheck/internal/types"

// LookupConcrete follows id's class to the type it is bound to and resolves
// its arguments. ok is false when the class is still a free variable; the
// returned ID is then the class root.
func (s *Store) LookupConcrete(id types.TypeID) (types.TypeID, bool) {
	v := s.Shallow(id)
	if s.kind(v) == types.KindVar {
		return v, false
	}
	return s.Resolve(v), true
}

// Resolve substitutes every bound variable inside id. Free variables are
// replaced by their class roots so equal types share one TypeID.
func (s *Store) Resolve(id types.TypeID) types.TypeID {
	return s.resolve(id, 0)
}

func (s *Store) resolve(id types.TypeID, depth int) types.TypeID {
	v := s.Shallow(id)
	if depth > maxDepth || s.kind(v) != types.KindConcrete {
		return v
	}
	args := s.types.Args(v)
	if len(args) == 0 {
		return v
	}
	out := make([]types.TypeID, len(args))
	changed := false
	for i, a := range args {
		out[i] = s.resolve(a, depth+1)
		changed = changed || out[i] != a
	}
	if !changed {
		return v
	}
	res := s.types.Concrete(s.types.MustLookup(v).Name, out...)
	s.ensure()
	return res
}

// Ground reports whether id resolves to a type with no free variables.
func (s *Store) Ground(id types.TypeID) bool {
	return s.ground(s.Shallow(id), 0)
}

func (s *Store) ground(id types.TypeID, depth int) bool {
	if depth > maxDepth {
		return false
	}
	id = s.Shallow(id)
	if s.kind(id) == types.KindVar {
		return false
	}
	for _, a := range s.types.Args(id) {
		if !s.ground(a, depth+1) {
			return false
		}
	}
	return true
}

// Name returns the head name of id's binding: the concrete or forward
// name, "" for free variables and failures.
func (s *Store) Name(id types.TypeID) string {
	tt, ok := s.types.Lookup(s.Shallow(id))
	if !ok {
		return ""
	}
	switch tt.Kind {
	case types.KindConcrete, types.KindForward:
		return tt.Name
	}
	return ""
}

// Args returns the arguments of id's concrete binding.
func (s *Store) Args(id types.TypeID) []types.TypeID {
	return s.types.Args(s.Shallow(id))
}
