package builtins

import (
	"duckcheck/internal/solver"
	"duckcheck/internal/types"
)

// TmplKind selects how a template expression is instantiated.
type TmplKind uint8

const (
	TmplNone  TmplKind = iota
	TmplSelf           // the receiver itself
	TmplRecv           // the receiver's Index-th type argument
	TmplVar            // a variable fresh for each call
	TmplNamed          // Name[Args...]
)

// Tmpl is a type expression over the receiver's type arguments.
type Tmpl struct {
	Kind  TmplKind
	Index int
	Name  string
	Args  []Tmpl
}

func Self() Tmpl                           { return Tmpl{Kind: TmplSelf} }
func Recv(i int) Tmpl                      { return Tmpl{Kind: TmplRecv, Index: i} }
func Var(i int) Tmpl                       { return Tmpl{Kind: TmplVar, Index: i} }
func Named(name string, args ...Tmpl) Tmpl { return Tmpl{Kind: TmplNamed, Name: name, Args: args} }

var (
	tInt   = Named(types.NameInt)
	tFloat = Named(types.NameFloat)
	tStr   = Named(types.NameStr)
	tBool  = Named(types.NameBool)
	tNone  = Named(types.NameNone)
	tAny   = Named(types.NameAny)
)

func listOf(t Tmpl) Tmpl { return Named(types.NameList, t) }

// IsSet reports whether the template was provided.
func (t Tmpl) IsSet() bool { return t.Kind != TmplNone }

// vars returns one more than the highest TmplVar index in t.
func (t Tmpl) vars() int {
	n := 0
	if t.Kind == TmplVar {
		n = t.Index + 1
	}
	for _, a := range t.Args {
		n = max(n, a.vars())
	}
	return n
}

// Instantiate builds the type t denotes for a call on recv. vars supplies
// the per-call variables.
func Instantiate(s *solver.Store, t Tmpl, recv types.TypeID, vars []types.TypeID) types.TypeID {
	in := s.Types()
	switch t.Kind {
	case TmplSelf:
		if recv.IsValid() {
			return recv
		}
		return in.Builtins().Any
	case TmplRecv:
		if recv.IsValid() {
			if args := s.Args(recv); t.Index < len(args) {
				return args[t.Index]
			}
		}
		return in.Builtins().Any
	case TmplVar:
		if t.Index < len(vars) {
			return vars[t.Index]
		}
		return s.Fresh()
	case TmplNamed:
		args := make([]types.TypeID, len(t.Args))
		for i, a := range t.Args {
			args[i] = Instantiate(s, a, recv, vars)
		}
		return in.Concrete(t.Name, args...)
	}
	return in.Builtins().Any
}

// Generic returns a fresh instance of the family's type: List[~T],
// Dict[~K, ~V], Set[~T] or the plain scalar.
func Generic(s *solver.Store, f Family) types.TypeID {
	in := s.Types()
	switch f {
	case FamilyList, FamilySet:
		return in.Concrete(f.String(), s.Fresh())
	case FamilyDict:
		return in.Concrete(f.String(), s.Fresh(), s.Fresh())
	}
	return in.Concrete(f.String())
}

// ElementOf returns the type produced by iterating over t.
func ElementOf(s *solver.Store, t types.TypeID) (types.TypeID, bool) {
	in := s.Types()
	fam, ok := FamilyOf(s.Name(t))
	if !ok {
		return types.NoTypeID, false
	}
	args := s.Args(t)
	switch fam {
	case FamilyList, FamilySet, FamilyDict:
		if len(args) > 0 {
			return args[0], true
		}
		return in.Builtins().Any, true
	case FamilyStr:
		return in.Builtins().Str, true
	case FamilyTuple:
		if len(args) == 0 {
			return in.Builtins().Any, true
		}
		first := s.Resolve(args[0])
		for _, a := range args[1:] {
			if s.Resolve(a) != first {
				return in.Builtins().Any, true
			}
		}
		return args[0], true
	}
	return types.NoTypeID, false
}

// Widens reports whether a value of type from may be passed where to is
// expected under the numeric tower bool < int < float.
func Widens(s *solver.Store, from, to types.TypeID) bool {
	f, t := s.Name(from), s.Name(to)
	switch t {
	case types.NameInt:
		return f == types.NameBool
	case types.NameFloat:
		return f == types.NameInt || f == types.NameBool
	}
	return false
}
