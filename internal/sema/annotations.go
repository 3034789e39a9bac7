package sema

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

// annotation resolves a type annotation. Every node of the annotation gets
// the type it denotes. Names outside the known vocabulary resolve to Any.
func (tc *typeChecker) annotation(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	if !id.IsValid() {
		return tc.store.Fresh()
	}
	b := tc.types.Builtins()
	switch tc.builder.Kind(id) {
	case ast.KindConst:
		c, _ := tc.builder.Const(id)
		switch c.Kind {
		case ast.ConstNone:
			return tc.setSlot(id, b.None)
		case ast.ConstStr:
			// a quoted forward reference
			return tc.setSlot(id, tc.namedAnnotation(scope, c.Value, nil))
		}
		return tc.setSlot(id, b.Any)
	case ast.KindName:
		nm, _ := tc.builder.Name(id)
		return tc.setSlot(id, tc.namedAnnotation(scope, tc.builder.Str(nm.Name), nil))
	case ast.KindAttribute:
		// typing.List and friends
		at, _ := tc.builder.Attribute(id)
		tc.annotationNodes(at.Value, b.Any)
		return tc.setSlot(id, tc.namedAnnotation(scope, tc.builder.Str(at.Attr), nil))
	case ast.KindSubscript:
		sub, _ := tc.builder.Subscript(id)
		head := tc.annotationHead(sub.Value)
		var params []ast.NodeID
		if seq, ok := tc.builder.Seq(sub.Index); ok && tc.builder.Kind(sub.Index) == ast.KindTuple {
			params = seq.Elts
		} else {
			params = []ast.NodeID{sub.Index}
		}
		t := tc.namedAnnotation(scope, head, func() []types.TypeID {
			return tc.annotationArgs(scope, head, params)
		})
		tc.annotationNodes(sub.Value, t)
		if tc.builder.Kind(sub.Index) == ast.KindTuple {
			tc.setSlot(sub.Index, t)
		}
		return tc.setSlot(id, t)
	case ast.KindList:
		// the parameter list of Callable[[...], R]
		seq, _ := tc.builder.Seq(id)
		for _, elt := range seq.Elts {
			tc.annotation(scope, elt)
		}
		return tc.setSlot(id, b.Any)
	}
	tc.annotationNodes(id, b.Any)
	return b.Any
}

// annotationNodes gives every node under id the slot t, unless it already
// has one.
func (tc *typeChecker) annotationNodes(id ast.NodeID, t types.TypeID) {
	if !id.IsValid() {
		return
	}
	tc.builder.Walk(id, func(n ast.NodeID, _ int) bool {
		if !tc.result.slots[n].IsValid() {
			tc.setSlot(n, t)
		}
		return true
	})
}

func (tc *typeChecker) annotationHead(id ast.NodeID) string {
	switch tc.builder.Kind(id) {
	case ast.KindName:
		nm, _ := tc.builder.Name(id)
		return tc.builder.Str(nm.Name)
	case ast.KindAttribute:
		at, _ := tc.builder.Attribute(id)
		return tc.builder.Str(at.Attr)
	}
	return ""
}

// annotationArgs resolves the parameters of a subscripted annotation.
// Callable takes a list of parameter types followed by the return type.
func (tc *typeChecker) annotationArgs(scope symbols.ScopeID, head string, params []ast.NodeID) []types.TypeID {
	if head == "Callable" && len(params) == 2 {
		var ps []types.TypeID
		if seq, ok := tc.builder.Seq(params[0]); ok && tc.builder.Kind(params[0]) == ast.KindList {
			ps = make([]types.TypeID, len(seq.Elts))
			for i, elt := range seq.Elts {
				ps[i] = tc.annotation(scope, elt)
			}
			tc.setSlot(params[0], tc.types.Builtins().Any)
		} else {
			tc.annotation(scope, params[0])
		}
		ret := tc.annotation(scope, params[1])
		return append(ps, ret)
	}
	out := make([]types.TypeID, len(params))
	for i, p := range params {
		out[i] = tc.annotation(scope, p)
	}
	return out
}

// namedAnnotation maps an annotation name, with its resolved parameters
// when subscripted, to a type.
func (tc *typeChecker) namedAnnotation(scope symbols.ScopeID, name string, params func() []types.TypeID) types.TypeID {
	var args []types.TypeID
	if params != nil {
		args = params()
	}
	arg := func(i int) types.TypeID {
		if i < len(args) {
			return args[i]
		}
		return tc.store.Fresh()
	}
	b := tc.types.Builtins()
	switch name {
	case "int":
		return b.Int
	case "float":
		return b.Float
	case "str":
		return b.Str
	case "bool":
		return b.Bool
	case "None", "NoneType":
		return b.None
	case "Any", "object":
		return b.Any
	case "List", "list":
		return tc.types.Concrete(types.NameList, arg(0))
	case "Set", "set", "FrozenSet", "frozenset":
		return tc.types.Concrete(types.NameSet, arg(0))
	case "Dict", "dict":
		return tc.types.Concrete(types.NameDict, arg(0), arg(1))
	case "Tuple", "tuple":
		if params == nil {
			return tc.store.Fresh()
		}
		return tc.types.Concrete(types.NameTuple, args...)
	case "Optional":
		return arg(0)
	case "Callable":
		if len(args) == 0 {
			return tc.store.Fresh()
		}
		return tc.types.Callable(args[:len(args)-1], args[len(args)-1])
	}
	if info, ok := tc.classes[name]; ok {
		return info.Instance
	}
	if sym, err := tc.table.LookupInEnv(scope, name); err == nil {
		if info, ok := tc.classOfObject(tc.table.Symbols.Get(sym).Type); ok {
			return info.Instance
		}
	}
	return b.Any
}
