package builtins

import (
	"duckcheck/internal/solver"
	"duckcheck/internal/types"
)

// Call is one call site to check against the table.
type Call struct {
	Site     types.Site
	Name     string         // method or function name as written
	Receiver types.TypeID   // NoTypeID for prelude functions
	Args     []types.TypeID // positional argument types, in order
}

// CheckMethod validates receiver.Name(args...) and returns the result type
// or a failure. Checks run in a fixed order: structural argument classes
// first, then the receiver family, then the parameters that depend on the
// receiver's type arguments.
func (t *Table) CheckMethod(s *solver.Store, c Call) types.TypeID {
	if failed, ok := firstFailure(s, append([]types.TypeID{c.Receiver}, c.Args...)); ok {
		return failed
	}
	in := s.Types()
	recv := s.Shallow(c.Receiver)

	if s.IsFree(recv) {
		owners := t.Families(c.Name)
		switch len(owners) {
		case 0:
			return s.Fail(types.FailUnknownMethod, c.Site,
				types.UnknownMethodMessage(c.Site.Line, c.Name, s.Render(recv)))
		case 1:
			// the method name pins the receiver's family
			recv = s.UnifyAt(c.Site, recv, Generic(s, owners[0]))
		default:
			return s.Fresh()
		}
	}
	if in.IsNamed(recv, types.NameAny) {
		return in.Builtins().Any
	}

	fam, _ := FamilyOf(s.Name(recv))
	sig, ok := t.Method(fam, c.Name)
	if !ok {
		owners := t.Families(c.Name)
		if len(owners) == 0 {
			return s.Fail(types.FailUnknownMethod, c.Site,
				types.UnknownMethodMessage(c.Site.Line, c.Name, s.Render(recv)))
		}
		sig, _ = t.Method(owners[0], c.Name)
	}
	return t.check(s, sig, c, recv, fam)
}

// CheckFunction validates a call to a prelude function.
func (t *Table) CheckFunction(s *solver.Store, sig *Signature, c Call) types.TypeID {
	if failed, ok := firstFailure(s, c.Args); ok {
		return failed
	}
	return t.check(s, sig, c, types.NoTypeID, FamilyInvalid)
}

func (t *Table) check(s *solver.Store, sig *Signature, c Call, recv types.TypeID, fam Family) types.TypeID {
	lo, hi := sig.Arity()
	if len(c.Args) < lo || (hi >= 0 && len(c.Args) > hi) {
		want := lo
		if len(c.Args) > lo && hi >= 0 {
			want = hi
		}
		return s.Fail(types.FailArgumentType, c.Site, types.ArityMessage(c.Site.Line, c.Name, want, len(c.Args)))
	}

	for i, arg := range c.Args {
		p, _ := sig.Param(i)
		if p.Class != ClassNone && !admits(s, p.Class, arg) {
			return s.Fail(types.FailArgumentType, c.Site,
				types.ArgumentMessage(c.Site.Line, c.Name, i+1, p.Class.String(), s.Render(arg)))
		}
	}

	if sig.Family != FamilyInvalid && !sig.Family.Accepts(fam) {
		return s.Fail(types.FailSelfType, c.Site,
			types.SelfTypeMessage(c.Site.Line, c.Name, sig.Family.String(), s.Render(recv)))
	}

	vars := make([]types.TypeID, sig.nvars)
	for i := range vars {
		vars[i] = s.Fresh()
	}
	for i, arg := range c.Args {
		p, _ := sig.Param(i)
		if p.Type.IsSet() {
			expected := Instantiate(s, p.Type, recv, vars)
			if !accepts(s, c.Site, expected, arg) {
				return s.Fail(types.FailArgumentType, c.Site,
					types.ArgumentMessage(c.Site.Line, c.Name, i+1, s.Render(expected), s.Render(arg)))
			}
		}
		if p.Elem.IsSet() {
			elem, ok := ElementOf(s, arg)
			if !ok {
				// free or Any argument: nothing to relate yet
				continue
			}
			expected := Instantiate(s, p.Elem, recv, vars)
			if !accepts(s, c.Site, expected, elem) {
				return s.Fail(types.FailArgumentType, c.Site,
					types.ArgumentMessage(c.Site.Line, c.Name, i+1,
						"Iterable["+s.Render(expected)+"]", s.Render(arg)))
			}
		}
	}
	return Instantiate(s, sig.Returns, recv, vars)
}

// accepts unifies expected with actual unless that would fail, allowing
// numeric widening between concrete scalars.
func accepts(s *solver.Store, site types.Site, expected, actual types.TypeID) bool {
	if Widens(s, actual, expected) {
		return true
	}
	_, ok := s.TryUnify(site, expected, actual)
	return ok
}

func admits(s *solver.Store, c TypeClass, arg types.TypeID) bool {
	arg = s.Shallow(arg)
	in := s.Types()
	if s.IsFree(arg) || in.IsNamed(arg, types.NameAny) {
		return true
	}
	if fam, ok := FamilyOf(s.Name(arg)); ok {
		return c.Admits(fam)
	}
	// user instances, classes and callables
	return c == ClassHashable
}

func firstFailure(s *solver.Store, ids []types.TypeID) (types.TypeID, bool) {
	best := types.NoTypeID
	for _, id := range ids {
		if !id.IsValid() || !s.IsFail(id) {
			continue
		}
		f := s.Shallow(id)
		if !best.IsValid() || f < best {
			best = f
		}
	}
	return best, best.IsValid()
}
