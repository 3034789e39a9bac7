package sema

import (
	"slices"

	"duckcheck/internal/ast"
	"duckcheck/internal/builtins"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

func (tc *typeChecker) walkBlock(scope symbols.ScopeID, body []ast.NodeID) {
	for _, stmt := range body {
		tc.stmt(scope, stmt)
	}
}

func (tc *typeChecker) stmt(scope symbols.ScopeID, id ast.NodeID) {
	none := tc.types.Builtins().None
	switch tc.builder.Kind(id) {
	case ast.KindClassDef:
		tc.visitClassDef(scope, id)
	case ast.KindFunctionDef:
		tc.visitFunctionDef(scope, id)
	case ast.KindAssign:
		tc.visitAssign(scope, id)
	case ast.KindAnnAssign:
		tc.visitAnnAssign(scope, id)
	case ast.KindAugAssign:
		tc.visitAugAssign(scope, id)
	case ast.KindReturn:
		tc.visitReturn(scope, id)
	case ast.KindExpr:
		st, _ := tc.builder.Value(id)
		tc.setSlot(id, tc.expr(scope, st.Value))
	case ast.KindIf, ast.KindWhile:
		br, _ := tc.builder.Branch(id)
		tc.expr(scope, br.Test)
		tc.setSlot(id, none)
		tc.walkBlock(scope, br.Body)
		tc.walkBlock(scope, br.Orelse)
	case ast.KindFor:
		tc.visitFor(scope, id)
	case ast.KindPass:
		tc.setSlot(id, none)
	default:
		if tc.builder.Kind(id).IsExpr() {
			tc.expr(scope, id)
			return
		}
		tc.setSlot(id, none)
	}
}

func (tc *typeChecker) visitAssign(scope symbols.ScopeID, id ast.NodeID) {
	as, _ := tc.builder.Assign(id)
	vt := tc.expr(scope, as.Value)
	res := vt
	for _, target := range as.Targets {
		r := tc.assign(scope, id, target, as.Value, vt)
		if tc.isFail(r) && !tc.isFail(res) {
			res = r
		}
	}
	tc.setSlot(id, res)
}

func (tc *typeChecker) visitAnnAssign(scope symbols.ScopeID, id ast.NodeID) {
	as, _ := tc.builder.AnnAssign(id)
	want := tc.annotation(scope, as.Annotation)
	res := tc.assign(scope, id, as.Target, as.Value, want)
	if as.Value.IsValid() {
		vt := tc.expr(scope, as.Value)
		if r := tc.unify(id, res, vt); !tc.isFail(res) {
			res = r
		}
	}
	tc.setSlot(id, res)
}

func (tc *typeChecker) visitAugAssign(scope symbols.ScopeID, id ast.NodeID) {
	as, _ := tc.builder.AugAssign(id)
	cur := tc.expr(scope, as.Target)
	vt := tc.expr(scope, as.Value)
	out := tc.binary(id, as.Op, cur, vt)
	if tc.isFail(out) {
		tc.setSlot(id, out)
		return
	}
	tc.setSlot(id, tc.assign(scope, id, as.Target, ast.NoNodeID, out))
}

func (tc *typeChecker) visitFor(scope symbols.ScopeID, id ast.NodeID) {
	loop, _ := tc.builder.For(id)
	it := tc.expr(scope, loop.Iter)
	elem := tc.elementOf(id, it)
	res := tc.types.Builtins().None
	if tc.isFail(elem) {
		res = elem
	}
	if r := tc.assign(scope, id, loop.Target, ast.NoNodeID, elem); tc.isFail(r) && !tc.isFail(res) {
		res = r
	}
	tc.setSlot(id, res)
	tc.walkBlock(scope, loop.Body)
	tc.walkBlock(scope, loop.Orelse)
}

// elementOf is the type produced by iterating over t.
func (tc *typeChecker) elementOf(at ast.NodeID, t types.TypeID) types.TypeID {
	if f, ok := tc.firstFail(t); ok {
		return f
	}
	if tc.store.IsFree(t) || tc.isAny(t) {
		return tc.store.Fresh()
	}
	if elem, ok := builtins.ElementOf(tc.store, t); ok {
		return elem
	}
	if _, ok := tc.classOfInstance(t); ok {
		// user iterables are not modelled
		return tc.types.Builtins().Any
	}
	return tc.fail(types.FailUnification, at,
		types.ConflictMessage(tc.site(at), "Iterable", tc.store.Render(t)))
}

// assign stores vt into target and returns the unification result.
// stmt is the statement that owns the assignment; value the assigned
// expression when there is a single one.
func (tc *typeChecker) assign(scope symbols.ScopeID, stmt, target, value ast.NodeID, vt types.TypeID) types.TypeID {
	switch tc.builder.Kind(target) {
	case ast.KindName:
		nm, _ := tc.builder.Name(target)
		name := tc.builder.Str(nm.Name)
		sym, res := tc.table.Define(scope, name, symbols.SymbolVar, vt, target, tc.site(stmt))
		tc.setSlot(target, tc.table.Symbols.Get(sym).Type)
		return res

	case ast.KindAttribute:
		return tc.assignAttr(scope, stmt, target, value, vt)

	case ast.KindTuple, ast.KindList:
		return tc.assignUnpack(scope, stmt, target, vt)

	case ast.KindSubscript:
		return tc.assignItem(scope, stmt, target, vt)
	}
	tc.expr(scope, target)
	return vt
}

func (tc *typeChecker) assignAttr(scope symbols.ScopeID, stmt, target, value ast.NodeID, vt types.TypeID) types.TypeID {
	at, _ := tc.builder.Attribute(target)
	name := tc.builder.Str(at.Attr)
	obj := tc.expr(scope, at.Value)
	if f, ok := tc.firstFail(obj); ok {
		return tc.setSlot(target, f)
	}
	info, ok := tc.classOfInstance(obj)
	if !ok {
		info, ok = tc.classOfObject(obj)
	}
	switch {
	case ok:
		attr := tc.recordAttr(info, scope, target, value, name)
		tc.setSlot(target, attr)
		return tc.unify(stmt, attr, vt)
	case tc.store.IsFree(obj) || tc.isAny(obj):
		tc.setSlot(target, vt)
		return vt
	}
	f := tc.fail(types.FailAttributeAccess, target,
		types.AttributeMessage(tc.line(target), tc.builder.Format(at.Value), name))
	return tc.setSlot(target, f)
}

func (tc *typeChecker) assignUnpack(scope symbols.ScopeID, stmt, target ast.NodeID, vt types.TypeID) types.TypeID {
	seq, _ := tc.builder.Seq(target)
	n := len(seq.Elts)
	parts := make([]types.TypeID, n)
	res := vt

	switch {
	case tc.isFail(vt) || tc.isAny(vt):
		for i := range parts {
			parts[i] = vt
		}
	case tc.store.IsFree(vt):
		for i := range parts {
			parts[i] = tc.store.Fresh()
		}
		res = tc.store.UnifyAt(tc.site(stmt), vt, tc.types.Concrete(types.NameTuple, parts...))
	case tc.store.Name(vt) == types.NameTuple:
		args := tc.store.Args(vt)
		if len(args) != n {
			fresh := make([]types.TypeID, n)
			for i := range fresh {
				fresh[i] = tc.store.Fresh()
			}
			res = tc.conflict(stmt, tc.types.Concrete(types.NameTuple, fresh...), vt)
			for i := range parts {
				parts[i] = res
			}
		} else {
			copy(parts, args)
		}
	default:
		elem := tc.elementOf(stmt, vt)
		if tc.isFail(elem) {
			res = elem
		}
		for i := range parts {
			parts[i] = elem
		}
	}

	for i, elt := range seq.Elts {
		if r := tc.assign(scope, stmt, elt, ast.NoNodeID, parts[i]); tc.isFail(r) && !tc.isFail(res) {
			res = r
		}
	}
	tc.setSlot(target, vt)
	return res
}

func (tc *typeChecker) assignItem(scope symbols.ScopeID, stmt, target ast.NodeID, vt types.TypeID) types.TypeID {
	sub, _ := tc.builder.Subscript(target)
	ct := tc.expr(scope, sub.Value)
	it := tc.expr(scope, sub.Index)
	if f, ok := tc.firstFail(ct, it); ok {
		return tc.setSlot(target, f)
	}
	in := tc.types
	switch fam, _ := tc.family(ct); {
	case tc.store.IsFree(ct) || tc.isAny(ct):
		tc.setSlot(target, vt)
		return vt
	case fam == builtins.FamilyList && len(tc.store.Args(ct)) == 1:
		args := tc.store.Args(ct)
		if r := tc.unify(stmt, in.Builtins().Int, it); tc.isFail(r) {
			return tc.setSlot(target, r)
		}
		tc.setSlot(target, args[0])
		return tc.unify(stmt, args[0], vt)
	case fam == builtins.FamilyDict && len(tc.store.Args(ct)) == 2:
		args := tc.store.Args(ct)
		if r := tc.unify(stmt, args[0], it); tc.isFail(r) {
			return tc.setSlot(target, r)
		}
		tc.setSlot(target, args[1])
		return tc.unify(stmt, args[1], vt)
	}
	if info, ok := tc.classOfInstance(ct); ok {
		if _, has := tc.member(info, "__setitem__"); has {
			tc.setSlot(target, vt)
			return vt
		}
	}
	f := tc.conflict(stmt, in.Concrete(types.NameList, vt), ct)
	return tc.setSlot(target, f)
}

// targetsOf lists the store targets of an assignment statement.
func (tc *typeChecker) targetsOf(stmt ast.NodeID) []ast.NodeID {
	switch tc.builder.Kind(stmt) {
	case ast.KindAssign:
		as, _ := tc.builder.Assign(stmt)
		return as.Targets
	case ast.KindAnnAssign:
		as, _ := tc.builder.AnnAssign(stmt)
		return []ast.NodeID{as.Target}
	case ast.KindAugAssign:
		as, _ := tc.builder.AugAssign(stmt)
		return []ast.NodeID{as.Target}
	case ast.KindFor:
		loop, _ := tc.builder.For(stmt)
		return []ast.NodeID{loop.Target}
	}
	return nil
}

// forEachName calls fn for every plain name bound by target, descending
// into tuple and list patterns.
func (tc *typeChecker) forEachName(target ast.NodeID, fn func(id ast.NodeID, name string)) {
	switch tc.builder.Kind(target) {
	case ast.KindName:
		nm, _ := tc.builder.Name(target)
		fn(target, tc.builder.Str(nm.Name))
	case ast.KindTuple, ast.KindList:
		seq, _ := tc.builder.Seq(target)
		for _, elt := range seq.Elts {
			tc.forEachName(elt, fn)
		}
	}
}

// isStoreTarget reports whether id is written to by its statement.
func (tc *typeChecker) isStoreTarget(id ast.NodeID) bool {
	cur := id
	parent := tc.builder.Parent(cur)
	for {
		k := tc.builder.Kind(parent)
		if k != ast.KindTuple && k != ast.KindList {
			break
		}
		cur = parent
		parent = tc.builder.Parent(cur)
	}
	return slices.Contains(tc.targetsOf(parent), cur)
}
