package sema

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/builtins"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

func (tc *typeChecker) visitCall(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	call, _ := tc.builder.Call(id)

	if at, ok := tc.builder.Attribute(call.Func); ok {
		obj := tc.expr(scope, at.Value)
		args := tc.exprs(scope, call.Args)
		name := tc.builder.Str(at.Attr)
		if tc.builtinReceiver(obj, name) {
			if tc.isAny(obj) {
				tc.setSlot(call.Func, obj)
			} else {
				tc.setSlot(call.Func, tc.types.Builtins().BuiltinFunc)
			}
			return tc.builtins.CheckMethod(tc.store, builtins.Call{
				Site:     tc.site(id),
				Name:     name,
				Receiver: obj,
				Args:     args,
			})
		}
		if f, ok := tc.firstFail(obj); ok {
			tc.setSlot(call.Func, f)
			return f
		}
		if tc.store.IsFree(obj) {
			// a duck-typed receiver calling something no builtin defines
			tc.setSlot(call.Func, tc.store.Fresh())
			if f, ok := tc.firstFail(args...); ok {
				return f
			}
			return tc.store.Fresh()
		}
		callee := tc.setSlot(call.Func, tc.attribute(call.Func, obj, name))
		return tc.apply(id, name, callee, args, tc.methodInfo(obj, name))
	}

	callee := tc.expr(scope, call.Func)
	args := tc.exprs(scope, call.Args)
	name := tc.builder.Format(call.Func)
	var info *funcInfo
	if nm, ok := tc.builder.Name(call.Func); ok {
		name = tc.builder.Str(nm.Name)
		if sym, err := tc.table.LookupInEnv(scope, name); err == nil {
			s := tc.table.Symbols.Get(sym)
			if s.Kind == symbols.SymbolBuiltin && s.Scope == tc.result.Prelude {
				if sig, ok := tc.builtins.Function(name); ok && tc.store.Name(callee) == types.NameBuiltinFunc {
					return tc.builtins.CheckFunction(tc.store, sig, builtins.Call{Site: tc.site(id), Name: name, Args: args})
				}
			}
			info = tc.funcs[s.Decl]
		}
	}
	return tc.apply(id, name, callee, args, info)
}

func (tc *typeChecker) exprs(scope symbols.ScopeID, ids []ast.NodeID) []types.TypeID {
	out := make([]types.TypeID, len(ids))
	for i, id := range ids {
		out[i] = tc.expr(scope, id)
	}
	return out
}

// builtinReceiver reports whether obj.name(...) is checked against the
// builtin method table.
func (tc *typeChecker) builtinReceiver(obj types.TypeID, name string) bool {
	if tc.isFail(obj) {
		return false
	}
	if tc.isAny(obj) {
		return true
	}
	if tc.store.IsFree(obj) {
		return tc.builtins.IsMethod(name)
	}
	_, ok := tc.family(obj)
	return ok
}

// methodInfo finds the definition behind obj.name when obj is a user
// instance or class.
func (tc *typeChecker) methodInfo(obj types.TypeID, name string) *funcInfo {
	info, ok := tc.classOfInstance(obj)
	bound := ok
	if !ok {
		if info, ok = tc.classOfObject(obj); !ok {
			return nil
		}
	}
	sym, ok := tc.member(info, name)
	if !ok || sym.Kind != symbols.SymbolFunction {
		return nil
	}
	fi := tc.funcs[sym.Decl]
	if fi == nil || !bound || !fi.Method {
		return fi
	}
	cp := *fi
	cp.Min = max(cp.Min-1, 0)
	return &cp
}

// apply checks a call of callee with args. name is what messages call the
// callee; info, when known, supplies the number of required parameters.
func (tc *typeChecker) apply(id ast.NodeID, name string, callee types.TypeID, args []types.TypeID, info *funcInfo) types.TypeID {
	if f, ok := tc.firstFail(append([]types.TypeID{callee}, args...)...); ok {
		return f
	}
	ft := tc.store.Shallow(callee)
	switch {
	case tc.isAny(ft), tc.store.Name(ft) == types.NameBuiltinFunc:
		return tc.types.Builtins().Any
	case tc.store.IsFree(ft):
		params := make([]types.TypeID, len(args))
		for i := range params {
			params[i] = tc.store.Fresh()
		}
		ret := tc.store.Fresh()
		if r := tc.store.UnifyAt(tc.site(id), ft, tc.types.Callable(params, ret)); tc.isFail(r) {
			return r
		}
		return tc.checkArgs(id, name, params, len(params), args, ret)
	}

	if cls, ok := tc.classOfObject(ft); ok {
		return tc.instantiate(id, cls, args)
	}
	if tc.types.IsNamed(ft, types.NameCallable) {
		sig := tc.types.Args(ft)
		params, ret := sig[:len(sig)-1], sig[len(sig)-1]
		min := len(params)
		if info != nil && info.Min < min {
			min = info.Min
		}
		return tc.checkArgs(id, name, params, min, args, ret)
	}
	params := make([]types.TypeID, len(args))
	copy(params, args)
	return tc.conflict(id, tc.types.Callable(params, tc.store.Fresh()), ft)
}

// instantiate checks C(args...) against C.__init__ without self.
func (tc *typeChecker) instantiate(id ast.NodeID, cls *ClassInfo, args []types.TypeID) types.TypeID {
	sym, ok := tc.member(cls, "__init__")
	if !ok {
		if len(args) != 0 {
			return tc.fail(types.FailArgumentType, id, types.ArityMessage(tc.line(id), cls.Name, 0, len(args)))
		}
		return cls.Instance
	}
	init := tc.bindMethod(sym.Type)
	if !tc.types.IsNamed(init, types.NameCallable) {
		return cls.Instance
	}
	sig := tc.types.Args(init)
	params := sig[:len(sig)-1]
	min := len(params)
	if fi := tc.funcs[sym.Decl]; fi != nil && fi.Min-1 < min {
		min = max(fi.Min-1, 0)
	}
	if r := tc.checkArgs(id, "__init__", params, min, args, cls.Instance); tc.isFail(r) {
		return r
	}
	return cls.Instance
}

// checkArgs validates the argument count and relates each argument to its
// parameter, widening numeric arguments. The first mismatch fails the call.
func (tc *typeChecker) checkArgs(id ast.NodeID, name string, params []types.TypeID, min int, args []types.TypeID, ret types.TypeID) types.TypeID {
	if len(args) < min || len(args) > len(params) {
		want := min
		if len(args) > len(params) {
			want = len(params)
		}
		return tc.fail(types.FailArgumentType, id, types.ArityMessage(tc.line(id), name, want, len(args)))
	}
	site := tc.site(id)
	for i, arg := range args {
		expected := params[i]
		if builtins.Widens(tc.store, arg, expected) {
			continue
		}
		if _, ok := tc.store.TryUnify(site, expected, arg); !ok {
			return tc.fail(types.FailArgumentType, id,
				types.ArgumentMessage(tc.line(id), name, i+1, tc.store.Render(expected), tc.store.Render(arg)))
		}
	}
	return ret
}
