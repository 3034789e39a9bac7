package sema

import (
	"fmt"

	"duckcheck/internal/ast"
	"duckcheck/internal/builtins"
	"duckcheck/internal/diag"
	"duckcheck/internal/solver"
	"duckcheck/internal/symbols"
	"duckcheck/internal/trace"
	"duckcheck/internal/types"
)

type typeChecker struct {
	builder  *ast.Builder
	store    *solver.Store
	types    *types.Interner
	table    *symbols.Table
	builtins *builtins.Table
	reporter diag.Reporter
	tracer   trace.Tracer
	span     uint64 // enclosing span for node events
	result   *Result

	classes  map[string]*ClassInfo
	funcs    map[ast.NodeID]*funcInfo
	returns  []*funcInfo // innermost function last
	deferred []deferredLookup
}

// funcInfo describes one FunctionDef while and after it is visited.
type funcInfo struct {
	Node     ast.NodeID
	Name     string
	Scope    symbols.ScopeID
	Params   []types.TypeID // self included for methods
	Min      int            // parameters without a default
	Return   types.TypeID
	Method   bool
	returned bool // saw a `return <value>`
}

type deferredKind uint8

const (
	deferName deferredKind = iota + 1
	deferAttr
)

// deferredLookup is a name or attribute read that could not be resolved
// when it was visited. It is retried once the whole module is walked.
type deferredLookup struct {
	kind  deferredKind
	node  ast.NodeID
	scope symbols.ScopeID
	class *ClassInfo
	name  string
	slot  types.TypeID
	bound bool // attribute read through an instance
}

func (tc *typeChecker) node(id ast.NodeID) *ast.Node {
	return tc.builder.Get(id)
}

func (tc *typeChecker) line(id ast.NodeID) uint32 {
	if n := tc.node(id); n != nil {
		return n.Line()
	}
	return 0
}

// site locates failures created while checking id.
func (tc *typeChecker) site(id ast.NodeID) types.Site {
	n := tc.node(id)
	if n == nil {
		return types.Site{}
	}
	return types.Site{Node: uint32(id), Kind: n.Kind.String(), Line: n.Line()}
}

func (tc *typeChecker) setSlot(id ast.NodeID, t types.TypeID) types.TypeID {
	if id.IsValid() {
		tc.result.slots[id] = t
	}
	return t
}

func (tc *typeChecker) fail(kind types.FailKind, at ast.NodeID, msg string) types.TypeID {
	f := tc.store.Fail(kind, tc.site(at), msg)
	if tc.tracing() {
		tc.point("fail", fmt.Sprintf("%s@%d: %s", kind, tc.line(at), msg))
	}
	return f
}

func (tc *typeChecker) conflict(at ast.NodeID, expected, actual types.TypeID) types.TypeID {
	return tc.fail(types.FailUnification, at,
		types.ConflictMessage(tc.site(at), tc.store.Render(expected), tc.store.Render(actual)))
}

// unify binds actual into expected at id, accepting numeric widening.
func (tc *typeChecker) unify(at ast.NodeID, expected, actual types.TypeID) types.TypeID {
	if builtins.Widens(tc.store, actual, expected) {
		return tc.store.Shallow(expected)
	}
	return tc.store.UnifyAt(tc.site(at), expected, actual)
}

func (tc *typeChecker) isFail(t types.TypeID) bool {
	return tc.store.IsFail(t)
}

// firstFail returns the oldest failure among ts.
func (tc *typeChecker) firstFail(ts ...types.TypeID) (types.TypeID, bool) {
	best := types.NoTypeID
	for _, t := range ts {
		if !t.IsValid() || !tc.isFail(t) {
			continue
		}
		f := tc.store.Shallow(t)
		if !best.IsValid() || f < best {
			best = f
		}
	}
	return best, best.IsValid()
}

func (tc *typeChecker) isAny(t types.TypeID) bool {
	return tc.types.IsNamed(tc.store.Shallow(t), types.NameAny)
}

// family classifies t by its builtin family, if it has one.
func (tc *typeChecker) family(t types.TypeID) (builtins.Family, bool) {
	if tc.types.Kind(tc.store.Shallow(t)) != types.KindConcrete {
		return builtins.FamilyInvalid, false
	}
	return builtins.FamilyOf(tc.store.Name(t))
}

func (tc *typeChecker) isNumeric(t types.TypeID) bool {
	switch tc.store.Name(t) {
	case types.NameBool, types.NameInt, types.NameFloat:
		return true
	}
	return false
}

func (tc *typeChecker) tracing() bool {
	return tc.tracer != nil && tc.tracer.Enabled() && tc.tracer.Level().ShouldEmit(trace.ScopeNode)
}

func (tc *typeChecker) point(name, detail string) {
	trace.Point(tc.tracer, trace.ScopeNode, tc.span, name, detail)
}
