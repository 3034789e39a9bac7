package sema

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

// hoist pre-binds the classes and functions a block defines so that uses
// earlier in the block, or in sibling bodies, see them. Nested if/while/for
// bodies share the enclosing scope and are scanned too.
func (tc *typeChecker) hoist(scope symbols.ScopeID, body []ast.NodeID) {
	for _, stmt := range body {
		switch tc.builder.Kind(stmt) {
		case ast.KindClassDef:
			tc.declareClass(scope, stmt)
		case ast.KindFunctionDef:
			tc.declareFunc(scope, stmt)
		case ast.KindIf, ast.KindWhile:
			br, _ := tc.builder.Branch(stmt)
			tc.hoist(scope, br.Body)
			tc.hoist(scope, br.Orelse)
		case ast.KindFor:
			loop, _ := tc.builder.For(stmt)
			tc.hoist(scope, loop.Body)
			tc.hoist(scope, loop.Orelse)
		}
	}
}

// declareFunc binds a function name to Callable[[~P...], ~R] with one fresh
// variable per parameter, so calls ahead of the definition are checked for
// arity and constrain the parameters.
func (tc *typeChecker) declareFunc(scope symbols.ScopeID, node ast.NodeID) *funcInfo {
	if info, ok := tc.funcs[node]; ok {
		return info
	}
	fn, _ := tc.builder.FunctionDef(node)
	outer := tc.table.Scopes.Get(scope)
	info := &funcInfo{
		Node:   node,
		Name:   tc.builder.Str(fn.Name),
		Method: outer != nil && outer.Kind == symbols.ScopeClass && len(fn.Params) > 0,
		Min:    len(fn.Params),
	}
	for i, param := range fn.Params {
		if arg, ok := tc.builder.Arg(param); ok && arg.Default.IsValid() && i < info.Min {
			info.Min = i
		}
	}
	tc.funcs[node] = info

	sym := tc.table.Symbols.Get(tc.table.Declare(scope, info.Name, symbols.SymbolFunction, node))
	if sym.Decl == node {
		params := make([]types.TypeID, len(fn.Params))
		for i := range params {
			params[i] = tc.store.Fresh()
		}
		tc.store.UnifyAt(tc.site(node), sym.Type, tc.types.Callable(params, tc.store.Fresh()))
	}
	return info
}

// declareClass is the first phase of a class: the name is bound to its
// class object, the class scope is created, and every member the body will
// define is declared with a fresh variable.
func (tc *typeChecker) declareClass(scope symbols.ScopeID, node ast.NodeID) *ClassInfo {
	cd, _ := tc.builder.ClassDef(node)
	name := tc.builder.Str(cd.Name)

	info, seen := tc.classes[name]
	if !seen {
		info = &ClassInfo{
			Name:     name,
			Node:     node,
			Instance: tc.types.Forward(name),
			Object:   tc.types.ClassObject(name),
			Attrs:    make(map[string][]AttrSite),
		}
		info.Scope = tc.enterScope(symbols.ScopeClass, scope, node, name)
		tc.classes[name] = info
		tc.result.Classes = append(tc.result.Classes, info)
	} else {
		// a redefinition shares the first class's members
		tc.result.scopes[node] = info.Scope
	}
	tc.result.classOf[node] = info

	sym := tc.table.Declare(scope, name, symbols.SymbolClass, node)
	tc.store.UnifyAt(tc.site(node), tc.table.Symbols.Get(sym).Type, info.Object)

	tc.hoist(info.Scope, cd.Body)
	tc.declareMembers(info, cd.Body)
	if tc.tracing() {
		tc.point("class:"+name, "declared")
	}
	return info
}

// declareMembers declares class-level names and every `self.attr` a method
// assigns, so that methods may refer to members defined further down.
func (tc *typeChecker) declareMembers(info *ClassInfo, body []ast.NodeID) {
	for _, stmt := range body {
		switch tc.builder.Kind(stmt) {
		case ast.KindAssign, ast.KindAnnAssign, ast.KindAugAssign:
			for _, target := range tc.targetsOf(stmt) {
				tc.forEachName(target, func(id ast.NodeID, name string) {
					tc.table.Declare(info.Scope, name, symbols.SymbolVar, id)
				})
			}
		case ast.KindFunctionDef:
			tc.declareInstanceAttrs(info, stmt)
		case ast.KindIf, ast.KindWhile:
			br, _ := tc.builder.Branch(stmt)
			tc.declareMembers(info, br.Body)
			tc.declareMembers(info, br.Orelse)
		case ast.KindFor:
			loop, _ := tc.builder.For(stmt)
			tc.declareMembers(info, loop.Body)
			tc.declareMembers(info, loop.Orelse)
		}
	}
}

func (tc *typeChecker) declareInstanceAttrs(info *ClassInfo, method ast.NodeID) {
	fn, _ := tc.builder.FunctionDef(method)
	if len(fn.Params) == 0 {
		return
	}
	self, ok := tc.builder.Arg(fn.Params[0])
	if !ok {
		return
	}
	selfName := tc.builder.Str(self.Name)
	for _, stmt := range fn.Body {
		tc.builder.Walk(stmt, func(id ast.NodeID, _ int) bool {
			if tc.builder.Kind(id) == ast.KindClassDef {
				return false
			}
			attr, ok := tc.builder.Attribute(id)
			if !ok || !tc.isStoreTarget(id) {
				return true
			}
			if recv, ok := tc.builder.Name(attr.Value); ok && tc.builder.Str(recv.Name) == selfName {
				tc.table.Declare(info.Scope, tc.builder.Str(attr.Attr), symbols.SymbolAttr, id)
			}
			return true
		})
	}
}

// visitClassDef is the second phase: the body runs in the class scope and
// the class is marked complete.
func (tc *typeChecker) visitClassDef(scope symbols.ScopeID, node ast.NodeID) {
	info, ok := tc.result.classOf[node]
	if !ok {
		info = tc.declareClass(scope, node)
	}
	cd, _ := tc.builder.ClassDef(node)
	for _, base := range cd.Bases {
		bt := tc.expr(scope, base)
		if b, ok := tc.classOfObject(bt); ok && b != info {
			info.Bases = append(info.Bases, b)
		}
	}
	tc.setSlot(node, info.Object)
	tc.walkBlock(info.Scope, cd.Body)
	info.Done = true
	if tc.tracing() {
		tc.point("class:"+info.Name, "complete")
	}
}

// classOfInstance maps a ForwardRef instance type to its class.
func (tc *typeChecker) classOfInstance(t types.TypeID) (*ClassInfo, bool) {
	v := tc.store.Shallow(t)
	if tc.types.Kind(v) != types.KindForward {
		return nil, false
	}
	info, ok := tc.classes[tc.types.MustLookup(v).Name]
	return info, ok
}

// classOfObject maps Type[ForwardRef(C)] to C.
func (tc *typeChecker) classOfObject(t types.TypeID) (*ClassInfo, bool) {
	v := tc.store.Shallow(t)
	if !tc.types.IsNamed(v, types.NameType) {
		return nil, false
	}
	args := tc.types.Args(v)
	if len(args) != 1 {
		return nil, false
	}
	return tc.classOfInstance(args[0])
}

// member finds name in the class or, failing that, its bases in order.
func (tc *typeChecker) member(info *ClassInfo, name string) (*symbols.Symbol, bool) {
	seen := make(map[*ClassInfo]bool)
	var find func(c *ClassInfo) (*symbols.Symbol, bool)
	find = func(c *ClassInfo) (*symbols.Symbol, bool) {
		if seen[c] {
			return nil, false
		}
		seen[c] = true
		if id, ok := tc.table.LookupLocal(c.Scope, name); ok {
			return tc.table.Symbols.Get(id), true
		}
		for _, b := range c.Bases {
			if sym, ok := find(b); ok {
				return sym, true
			}
		}
		return nil, false
	}
	return find(info)
}

// complete reports whether every class in info's hierarchy has been visited.
func (tc *typeChecker) complete(info *ClassInfo) bool {
	if !info.Done {
		return false
	}
	for _, b := range info.Bases {
		if b != info && !b.Done {
			return false
		}
	}
	return true
}

// recordAttr registers an assignment to info's instance attribute name and
// returns the attribute's binding.
func (tc *typeChecker) recordAttr(info *ClassInfo, scope symbols.ScopeID, target, value ast.NodeID, name string) types.TypeID {
	sym, ok := tc.member(info, name)
	if !ok {
		id := tc.table.Declare(info.Scope, name, symbols.SymbolAttr, target)
		sym = tc.table.Symbols.Get(id)
	}
	if _, seen := info.Attrs[name]; !seen {
		info.AttrNames = append(info.AttrNames, name)
	}
	info.Attrs[name] = append(info.Attrs[name], AttrSite{Node: target, Value: value, Scope: scope})
	return sym.Type
}
