package ast

// Children returns the direct children of id in source order.
func (b *Builder) Children(id NodeID) []NodeID {
	n := b.Get(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindModule:
		d, _ := b.Module(id)
		return d.Body
	case KindClassDef:
		d, _ := b.ClassDef(id)
		return concat(d.Bases, d.Body)
	case KindFunctionDef:
		d, _ := b.FunctionDef(id)
		return concat(d.Params, ids(d.Returns), d.Body)
	case KindArg:
		d, _ := b.Arg(id)
		return ids(d.Annotation, d.Default)
	case KindAssign:
		d, _ := b.Assign(id)
		return concat(d.Targets, ids(d.Value))
	case KindAnnAssign:
		d, _ := b.AnnAssign(id)
		return ids(d.Target, d.Annotation, d.Value)
	case KindAugAssign:
		d, _ := b.AugAssign(id)
		return ids(d.Target, d.Value)
	case KindReturn, KindExpr:
		d, _ := b.Value(id)
		return ids(d.Value)
	case KindIf, KindWhile:
		d, _ := b.Branch(id)
		return concat(ids(d.Test), d.Body, d.Orelse)
	case KindFor:
		d, _ := b.For(id)
		return concat(ids(d.Target, d.Iter), d.Body, d.Orelse)
	case KindAttribute:
		d, _ := b.Attribute(id)
		return ids(d.Value)
	case KindCall:
		d, _ := b.Call(id)
		return concat(ids(d.Func), d.Args)
	case KindList, KindTuple, KindSet:
		d, _ := b.Seq(id)
		return d.Elts
	case KindDict:
		d, _ := b.Dict(id)
		out := make([]NodeID, 0, len(d.Keys)+len(d.Values))
		for i := range d.Keys {
			out = append(out, d.Keys[i])
			if i < len(d.Values) {
				out = append(out, d.Values[i])
			}
		}
		return out
	case KindBinOp:
		d, _ := b.BinOp(id)
		return ids(d.Left, d.Right)
	case KindUnaryOp:
		d, _ := b.UnaryOp(id)
		return ids(d.Operand)
	case KindCompare:
		d, _ := b.Compare(id)
		return concat(ids(d.Left), d.Comparators)
	case KindBoolOp:
		d, _ := b.BoolOp(id)
		return d.Values
	case KindSubscript:
		d, _ := b.Subscript(id)
		return ids(d.Value, d.Index)
	}
	return nil
}

func concat(groups ...[]NodeID) []NodeID {
	size := 0
	for _, g := range groups {
		size += len(g)
	}
	out := make([]NodeID, 0, size)
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Walk visits id and its descendants depth-first in source order. When fn
// returns false the children of that node are skipped.
func (b *Builder) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	b.walk(id, 0, fn)
}

func (b *Builder) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !id.IsValid() || !fn(id, depth) {
		return
	}
	for _, child := range b.Children(id) {
		b.walk(child, depth+1, fn)
	}
}

// EnclosingScope returns the nearest Module, ClassDef or FunctionDef that
// strictly contains id.
func (b *Builder) EnclosingScope(id NodeID) NodeID {
	for cur := b.Parent(id); cur.IsValid(); cur = b.Parent(cur) {
		switch b.Kind(cur) {
		case KindModule, KindClassDef, KindFunctionDef:
			return cur
		}
	}
	return NoNodeID
}
