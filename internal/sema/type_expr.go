package sema

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/builtins"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

// expr infers the type of an expression node and stores it in the node's
// slot.
func (tc *typeChecker) expr(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	if !id.IsValid() {
		return tc.types.Builtins().None
	}
	switch tc.builder.Kind(id) {
	case ast.KindName:
		return tc.visitName(scope, id)
	case ast.KindConst:
		return tc.setSlot(id, tc.constType(id))
	case ast.KindAttribute:
		return tc.visitAttribute(scope, id)
	case ast.KindCall:
		return tc.setSlot(id, tc.visitCall(scope, id))
	case ast.KindList, ast.KindSet:
		seq, _ := tc.builder.Seq(id)
		name := types.NameList
		if tc.builder.Kind(id) == ast.KindSet {
			name = types.NameSet
		}
		elem := tc.joinAll(scope, seq.Elts)
		if tc.isFail(elem) {
			return tc.setSlot(id, elem)
		}
		return tc.setSlot(id, tc.types.Concrete(name, elem))
	case ast.KindTuple:
		seq, _ := tc.builder.Seq(id)
		parts := make([]types.TypeID, len(seq.Elts))
		for i, elt := range seq.Elts {
			parts[i] = tc.expr(scope, elt)
		}
		if f, ok := tc.firstFail(parts...); ok {
			return tc.setSlot(id, f)
		}
		return tc.setSlot(id, tc.types.Concrete(types.NameTuple, parts...))
	case ast.KindDict:
		d, _ := tc.builder.Dict(id)
		key := tc.joinAll(scope, d.Keys)
		val := tc.joinAll(scope, d.Values)
		if f, ok := tc.firstFail(key, val); ok {
			return tc.setSlot(id, f)
		}
		return tc.setSlot(id, tc.types.Concrete(types.NameDict, key, val))
	case ast.KindBinOp:
		op, _ := tc.builder.BinOp(id)
		l := tc.expr(scope, op.Left)
		r := tc.expr(scope, op.Right)
		return tc.setSlot(id, tc.binary(id, op.Op, l, r))
	case ast.KindUnaryOp:
		op, _ := tc.builder.UnaryOp(id)
		return tc.setSlot(id, tc.unary(id, op.Op, tc.expr(scope, op.Operand)))
	case ast.KindCompare:
		return tc.setSlot(id, tc.visitCompare(scope, id))
	case ast.KindBoolOp:
		op, _ := tc.builder.BoolOp(id)
		if f, ok := tc.firstFail(tc.exprs(scope, op.Values)...); ok {
			return tc.setSlot(id, f)
		}
		return tc.setSlot(id, tc.types.Builtins().Bool)
	case ast.KindSubscript:
		return tc.setSlot(id, tc.visitSubscript(scope, id))
	}
	return tc.setSlot(id, tc.types.Builtins().None)
}

func (tc *typeChecker) constType(id ast.NodeID) types.TypeID {
	c, _ := tc.builder.Const(id)
	b := tc.types.Builtins()
	switch c.Kind {
	case ast.ConstInt:
		return b.Int
	case ast.ConstFloat:
		return b.Float
	case ast.ConstStr:
		return b.Str
	case ast.ConstBool:
		return b.Bool
	}
	return b.None
}

// joinAll infers every element and merges them into one element type.
// Elements that do not unify make the display heterogeneous (Any); an
// empty display yields a fresh variable.
func (tc *typeChecker) joinAll(scope symbols.ScopeID, elts []ast.NodeID) types.TypeID {
	ts := make([]types.TypeID, len(elts))
	for i, elt := range elts {
		ts[i] = tc.expr(scope, elt)
	}
	if f, ok := tc.firstFail(ts...); ok {
		return f
	}
	if len(ts) == 0 {
		return tc.store.Fresh()
	}
	acc := ts[0]
	for i, t := range ts[1:] {
		switch {
		case builtins.Widens(tc.store, acc, t):
			acc = t
		case builtins.Widens(tc.store, t, acc):
		default:
			if _, ok := tc.store.TryUnify(tc.site(elts[i+1]), acc, t); !ok {
				return tc.types.Builtins().Any
			}
		}
	}
	return acc
}

func (tc *typeChecker) visitName(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	nm, _ := tc.builder.Name(id)
	name := tc.builder.Str(nm.Name)
	sym, err := tc.table.LookupInEnv(scope, name)
	if err == nil {
		return tc.setSlot(id, tc.table.Symbols.Get(sym).Type)
	}
	if tc.insideFunction(scope) {
		// enclosing scopes may still bind the name before the body runs
		v := tc.store.Fresh()
		tc.deferred = append(tc.deferred, deferredLookup{kind: deferName, node: id, scope: scope, name: name, slot: v})
		return tc.setSlot(id, v)
	}
	return tc.setSlot(id, tc.fail(types.FailUnboundName, id, types.UnboundNameMessage(tc.line(id), name)))
}

func (tc *typeChecker) insideFunction(scope symbols.ScopeID) bool {
	for cur := scope; cur.IsValid(); {
		sc := tc.table.Scopes.Get(cur)
		if sc == nil {
			return false
		}
		if sc.Kind == symbols.ScopeFunction {
			return true
		}
		cur = sc.Parent
	}
	return false
}

func (tc *typeChecker) visitAttribute(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	at, _ := tc.builder.Attribute(id)
	obj := tc.expr(scope, at.Value)
	return tc.setSlot(id, tc.attribute(id, obj, tc.builder.Str(at.Attr)))
}

// attribute resolves obj.name read at node id.
func (tc *typeChecker) attribute(id ast.NodeID, obj types.TypeID, name string) types.TypeID {
	if f, ok := tc.firstFail(obj); ok {
		return f
	}
	if tc.isAny(obj) {
		return tc.types.Builtins().Any
	}
	if info, ok := tc.classOfInstance(obj); ok {
		return tc.classMember(id, info, name, true)
	}
	if info, ok := tc.classOfObject(obj); ok {
		return tc.classMember(id, info, name, false)
	}
	if tc.store.IsFree(obj) {
		owners := tc.builtins.Families(name)
		if len(owners) != 1 {
			return tc.store.Fresh()
		}
		tc.store.UnifyAt(tc.site(id), obj, builtins.Generic(tc.store, owners[0]))
		return tc.types.Builtins().BuiltinFunc
	}
	if fam, ok := tc.family(obj); ok {
		if _, has := tc.builtins.Method(fam, name); has {
			return tc.types.Builtins().BuiltinFunc
		}
	}
	return tc.attrFail(id, name)
}

func (tc *typeChecker) attrFail(id ast.NodeID, name string) types.TypeID {
	at, _ := tc.builder.Attribute(id)
	return tc.fail(types.FailAttributeAccess, id,
		types.AttributeMessage(tc.line(id), tc.builder.Format(at.Value), name))
}

// classMember looks name up on a class. Methods read through an instance
// are bound: their self parameter is dropped.
func (tc *typeChecker) classMember(id ast.NodeID, info *ClassInfo, name string, instance bool) types.TypeID {
	sym, ok := tc.member(info, name)
	if !ok {
		if !tc.complete(info) {
			v := tc.store.Fresh()
			tc.deferred = append(tc.deferred, deferredLookup{
				kind: deferAttr, node: id, class: info, name: name, slot: v,
				bound: instance,
			})
			return v
		}
		return tc.attrFail(id, name)
	}
	if instance && sym.Kind == symbols.SymbolFunction {
		return tc.bindMethod(sym.Type)
	}
	return sym.Type
}

// bindMethod turns Callable[[self, p...], r] into Callable[[p...], r].
func (tc *typeChecker) bindMethod(method types.TypeID) types.TypeID {
	m := tc.store.Shallow(method)
	if !tc.types.IsNamed(m, types.NameCallable) {
		return m
	}
	args := tc.types.Args(m)
	if len(args) < 2 {
		return m
	}
	return tc.types.Callable(args[1:len(args)-1], args[len(args)-1])
}

// resolveDeferred retries the lookups that missed while their scope or
// class was still incomplete.
func (tc *typeChecker) resolveDeferred() {
	for _, d := range tc.deferred {
		var t types.TypeID
		switch d.kind {
		case deferName:
			if sym, err := tc.table.LookupInEnv(d.scope, d.name); err == nil {
				t = tc.table.Symbols.Get(sym).Type
			} else {
				t = tc.fail(types.FailUnboundName, d.node, types.UnboundNameMessage(tc.line(d.node), d.name))
			}
		case deferAttr:
			if sym, ok := tc.member(d.class, d.name); ok {
				t = sym.Type
				if d.bound && sym.Kind == symbols.SymbolFunction {
					t = tc.bindMethod(t)
				}
			} else {
				t = tc.attrFail(d.node, d.name)
			}
		}
		tc.store.UnifyAt(tc.site(d.node), d.slot, t)
	}
	tc.deferred = nil
}
