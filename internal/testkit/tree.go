// Package testkit builds small ASTs for tests and checks invariants over
// annotated trees.
package testkit

import (
	"strconv"

	"duckcheck/internal/ast"
	"duckcheck/internal/source"
)

// Tree is a terse front end over ast.Builder. Every constructor takes the
// 1-based source line of the node first.
type Tree struct {
	B *ast.Builder
}

func NewTree() *Tree {
	return &Tree{B: ast.NewBuilder(0, nil, ast.Hints{})}
}

func at(line uint32) source.Span { return source.At(0, line, 0) }

func (t *Tree) Module(body ...ast.NodeID) ast.NodeID {
	return t.B.NewModule(at(1), "test", body)
}

func (t *Tree) Class(line uint32, name string, bases []ast.NodeID, body ...ast.NodeID) ast.NodeID {
	return t.B.NewClassDef(at(line), name, bases, body)
}

func (t *Tree) Def(line uint32, name string, params []ast.NodeID, body ...ast.NodeID) ast.NodeID {
	return t.B.NewFunctionDef(at(line), name, params, ast.NoNodeID, body)
}

// DefRet is Def with a return annotation.
func (t *Tree) DefRet(line uint32, name string, params []ast.NodeID, returns ast.NodeID, body ...ast.NodeID) ast.NodeID {
	return t.B.NewFunctionDef(at(line), name, params, returns, body)
}

func (t *Tree) Params(line uint32, names ...string) []ast.NodeID {
	out := make([]ast.NodeID, len(names))
	for i, n := range names {
		out[i] = t.B.NewArg(at(line), n, ast.NoNodeID, ast.NoNodeID)
	}
	return out
}

func (t *Tree) Param(line uint32, name string, annotation, def ast.NodeID) ast.NodeID {
	return t.B.NewArg(at(line), name, annotation, def)
}

func (t *Tree) Assign(line uint32, target, value ast.NodeID) ast.NodeID {
	return t.B.NewAssign(at(line), []ast.NodeID{target}, value)
}

func (t *Tree) AnnAssign(line uint32, target, annotation, value ast.NodeID) ast.NodeID {
	return t.B.NewAnnAssign(at(line), target, annotation, value)
}

func (t *Tree) AugAssign(line uint32, target ast.NodeID, op ast.BinaryOp, value ast.NodeID) ast.NodeID {
	return t.B.NewAugAssign(at(line), target, op, value)
}

func (t *Tree) Return(line uint32, value ast.NodeID) ast.NodeID {
	return t.B.NewReturn(at(line), value)
}

func (t *Tree) Expr(line uint32, value ast.NodeID) ast.NodeID {
	return t.B.NewExprStmt(at(line), value)
}

func (t *Tree) If(line uint32, test ast.NodeID, body, orelse []ast.NodeID) ast.NodeID {
	return t.B.NewIf(at(line), test, body, orelse)
}

func (t *Tree) While(line uint32, test ast.NodeID, body ...ast.NodeID) ast.NodeID {
	return t.B.NewWhile(at(line), test, body, nil)
}

func (t *Tree) For(line uint32, target, iter ast.NodeID, body ...ast.NodeID) ast.NodeID {
	return t.B.NewFor(at(line), target, iter, body, nil)
}

func (t *Tree) Pass(line uint32) ast.NodeID {
	return t.B.NewPass(at(line))
}

func (t *Tree) Name(line uint32, name string) ast.NodeID {
	return t.B.NewName(at(line), name)
}

func (t *Tree) Int(line uint32, v int) ast.NodeID {
	return t.B.NewConst(at(line), ast.ConstInt, strconv.Itoa(v))
}

func (t *Tree) Float(line uint32, v string) ast.NodeID {
	return t.B.NewConst(at(line), ast.ConstFloat, v)
}

func (t *Tree) Str(line uint32, v string) ast.NodeID {
	return t.B.NewConst(at(line), ast.ConstStr, v)
}

func (t *Tree) Bool(line uint32, v bool) ast.NodeID {
	if v {
		return t.B.NewConst(at(line), ast.ConstBool, "True")
	}
	return t.B.NewConst(at(line), ast.ConstBool, "False")
}

func (t *Tree) None(line uint32) ast.NodeID {
	return t.B.NewConst(at(line), ast.ConstNone, "None")
}

func (t *Tree) Attr(line uint32, value ast.NodeID, attr string) ast.NodeID {
	return t.B.NewAttribute(at(line), value, attr)
}

// Self is `self.attr`.
func (t *Tree) Self(line uint32, attr string) ast.NodeID {
	return t.Attr(line, t.Name(line, "self"), attr)
}

func (t *Tree) Call(line uint32, fn ast.NodeID, args ...ast.NodeID) ast.NodeID {
	return t.B.NewCall(at(line), fn, args)
}

// Method is `recv.name(args...)`.
func (t *Tree) Method(line uint32, recv ast.NodeID, name string, args ...ast.NodeID) ast.NodeID {
	return t.Call(line, t.Attr(line, recv, name), args...)
}

func (t *Tree) List(line uint32, elts ...ast.NodeID) ast.NodeID {
	return t.B.NewSeq(at(line), ast.KindList, elts)
}

func (t *Tree) Tuple(line uint32, elts ...ast.NodeID) ast.NodeID {
	return t.B.NewSeq(at(line), ast.KindTuple, elts)
}

func (t *Tree) Set(line uint32, elts ...ast.NodeID) ast.NodeID {
	return t.B.NewSeq(at(line), ast.KindSet, elts)
}

func (t *Tree) Dict(line uint32, keys, values []ast.NodeID) ast.NodeID {
	return t.B.NewDict(at(line), keys, values)
}

func (t *Tree) Bin(line uint32, left ast.NodeID, op ast.BinaryOp, right ast.NodeID) ast.NodeID {
	return t.B.NewBinOp(at(line), op, left, right)
}

func (t *Tree) Not(line uint32, operand ast.NodeID) ast.NodeID {
	return t.B.NewUnaryOp(at(line), ast.OpNot, operand)
}

func (t *Tree) Cmp(line uint32, left ast.NodeID, op ast.CompareOp, right ast.NodeID) ast.NodeID {
	return t.B.NewCompare(at(line), left, []ast.CompareOp{op}, []ast.NodeID{right})
}

func (t *Tree) Sub(line uint32, value, index ast.NodeID) ast.NodeID {
	return t.B.NewSubscript(at(line), value, index)
}
