package sema

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

// visitFunctionDef binds the parameters in a new scope, binds the function
// name to Callable[[params...], ret] in the enclosing scope and then checks
// the body against ret.
func (tc *typeChecker) visitFunctionDef(scope symbols.ScopeID, node ast.NodeID) {
	fn, _ := tc.builder.FunctionDef(node)
	info := tc.declareFunc(scope, node)
	name := info.Name
	info.Scope = tc.enterScope(symbols.ScopeFunction, scope, node, name)

	var owner *ClassInfo
	if info.Method {
		owner = tc.result.classOf[tc.table.Scopes.Get(scope).Owner]
	}

	for i, param := range fn.Params {
		arg, ok := tc.builder.Arg(param)
		if !ok {
			pt := tc.setSlot(param, tc.store.Fresh())
			info.Params = append(info.Params, pt)
			continue
		}
		pname := tc.builder.Str(arg.Name)
		var pt types.TypeID
		switch {
		case arg.Annotation.IsValid():
			pt = tc.annotation(scope, arg.Annotation)
		case i == 0 && owner != nil:
			pt = owner.Instance
		}
		if arg.Default.IsValid() {
			// defaults are evaluated where the function is defined
			dt := tc.expr(scope, arg.Default)
			if !pt.IsValid() {
				pt = dt
			} else {
				tc.unify(arg.Default, pt, dt)
			}
		}
		sym, bound := tc.table.Define(info.Scope, pname, symbols.SymbolParam, pt, param, tc.site(param))
		info.Params = append(info.Params, tc.table.Symbols.Get(sym).Type)
		tc.setSlot(param, bound)
	}

	info.Return = tc.store.Fresh()
	if fn.Returns.IsValid() {
		tc.store.UnifyAt(tc.site(node), info.Return, tc.annotation(scope, fn.Returns))
	}

	callable := tc.types.Callable(info.Params, info.Return)
	tc.bindDecl(scope, name, symbols.SymbolFunction, node, callable)
	tc.setSlot(node, callable)
	if tc.tracing() {
		tc.point("function:"+name, tc.store.Render(callable))
	}

	tc.returns = append(tc.returns, info)
	tc.hoist(info.Scope, fn.Body)
	tc.walkBlock(info.Scope, fn.Body)
	tc.returns = tc.returns[:len(tc.returns)-1]

	if !info.returned {
		// falling off the end returns None
		res := tc.store.UnifyAt(tc.site(node), info.Return, tc.types.Builtins().None)
		if tc.isFail(res) {
			tc.setSlot(node, res)
		}
	}
}

// bindDecl unifies the symbol hoisted for decl with t, or defines a new
// binding when nothing was hoisted.
func (tc *typeChecker) bindDecl(scope symbols.ScopeID, name string, kind symbols.SymbolKind, decl ast.NodeID, t types.TypeID) types.TypeID {
	if id, ok := tc.table.LookupLocal(scope, name); ok {
		if sym := tc.table.Symbols.Get(id); sym.Decl == decl {
			return tc.store.UnifyAt(tc.site(decl), sym.Type, t)
		}
	}
	_, res := tc.table.Define(scope, name, kind, t, decl, tc.site(decl))
	return res
}

// visitReturn unifies the returned value with the enclosing function's
// return type.
func (tc *typeChecker) visitReturn(scope symbols.ScopeID, node ast.NodeID) {
	ret, _ := tc.builder.Value(node)
	var vt types.TypeID
	if ret.Value.IsValid() {
		vt = tc.expr(scope, ret.Value)
	} else {
		vt = tc.types.Builtins().None
	}
	if len(tc.returns) == 0 {
		tc.setSlot(node, vt)
		return
	}
	info := tc.returns[len(tc.returns)-1]
	if ret.Value.IsValid() {
		info.returned = true
	}
	tc.setSlot(node, tc.unify(node, info.Return, vt))
}
