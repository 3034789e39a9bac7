package sema

import (
	"strconv"

	"duckcheck/internal/ast"
	"duckcheck/internal/builtins"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

var binaryDunders = [...]string{
	ast.OpAdd:      "__add__",
	ast.OpSub:      "__sub__",
	ast.OpMult:     "__mul__",
	ast.OpDiv:      "__truediv__",
	ast.OpFloorDiv: "__floordiv__",
	ast.OpMod:      "__mod__",
	ast.OpPow:      "__pow__",
	ast.OpBitAnd:   "__and__",
	ast.OpBitOr:    "__or__",
	ast.OpBitXor:   "__xor__",
	ast.OpLShift:   "__lshift__",
	ast.OpRShift:   "__rshift__",
}

func isBitwise(op ast.BinaryOp) bool {
	switch op {
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpLShift, ast.OpRShift:
		return true
	}
	return false
}

// binary types `l op r` at node at.
func (tc *typeChecker) binary(at ast.NodeID, op ast.BinaryOp, l, r types.TypeID) types.TypeID {
	if f, ok := tc.firstFail(l, r); ok {
		return f
	}
	b := tc.types.Builtins()
	if tc.isAny(l) || tc.isAny(r) {
		return b.Any
	}
	l, r = tc.store.Shallow(l), tc.store.Shallow(r)
	lfree, rfree := tc.store.IsFree(l), tc.store.IsFree(r)

	switch {
	case lfree && rfree:
		return tc.unify(at, l, r)
	case lfree || rfree:
		known, free := r, l
		if rfree {
			known, free = l, r
		}
		if op == ast.OpMult && tc.repeatable(known) {
			if res := tc.unify(at, b.Int, free); tc.isFail(res) {
				return res
			}
			return known
		}
		if op == ast.OpMod && tc.store.Name(l) == types.NameStr {
			return l
		}
		if _, ok := tc.classOfInstance(known); ok {
			return tc.store.Fresh()
		}
		return tc.unify(at, known, free)
	}

	if tc.isNumeric(l) && tc.isNumeric(r) {
		return tc.arith(at, op, l, r)
	}

	ln, rn := tc.store.Name(l), tc.store.Name(r)
	switch {
	case op == ast.OpAdd && ln == rn && (ln == types.NameStr || ln == types.NameList):
		return tc.unify(at, l, r)
	case op == ast.OpAdd && ln == types.NameTuple && rn == types.NameTuple:
		parts := append(append([]types.TypeID{}, tc.store.Args(l)...), tc.store.Args(r)...)
		return tc.types.Concrete(types.NameTuple, parts...)
	case op == ast.OpMult && tc.repeatable(l) && (rn == types.NameInt || rn == types.NameBool):
		return l
	case op == ast.OpMult && tc.repeatable(r) && (ln == types.NameInt || ln == types.NameBool):
		return r
	case op == ast.OpMod && ln == types.NameStr:
		return l
	case ln == types.NameSet && rn == types.NameSet &&
		(op == ast.OpSub || op == ast.OpBitOr || op == ast.OpBitAnd || op == ast.OpBitXor):
		return tc.unify(at, l, r)
	}

	if info, ok := tc.classOfInstance(l); ok && int(op) < len(binaryDunders) {
		if sym, ok := tc.member(info, binaryDunders[op]); ok && sym.Kind == symbols.SymbolFunction {
			return tc.apply(at, binaryDunders[op], tc.bindMethod(sym.Type), []types.TypeID{r}, nil)
		}
	}
	return tc.conflict(at, l, r)
}

// repeatable reports whether t supports `t * int`.
func (tc *typeChecker) repeatable(t types.TypeID) bool {
	switch tc.store.Name(t) {
	case types.NameStr, types.NameList, types.NameTuple:
		return true
	}
	return false
}

// arith follows the numeric tower bool < int < float.
func (tc *typeChecker) arith(at ast.NodeID, op ast.BinaryOp, l, r types.TypeID) types.TypeID {
	b := tc.types.Builtins()
	float := tc.store.Name(l) == types.NameFloat || tc.store.Name(r) == types.NameFloat
	switch {
	case isBitwise(op) && float:
		return tc.conflict(at, b.Int, b.Float)
	case isBitwise(op):
		if tc.store.Name(l) == types.NameBool && tc.store.Name(r) == types.NameBool && op != ast.OpLShift && op != ast.OpRShift {
			return b.Bool
		}
		return b.Int
	case op == ast.OpDiv, float:
		return b.Float
	}
	return b.Int
}

func (tc *typeChecker) unary(at ast.NodeID, op ast.UnaryOp, t types.TypeID) types.TypeID {
	if f, ok := tc.firstFail(t); ok {
		return f
	}
	b := tc.types.Builtins()
	if op == ast.OpNot {
		return b.Bool
	}
	if tc.isAny(t) || tc.store.IsFree(t) {
		return t
	}
	if _, ok := tc.classOfInstance(t); ok {
		return b.Any
	}
	switch tc.store.Name(t) {
	case types.NameBool, types.NameInt:
		return b.Int
	case types.NameFloat:
		if op != ast.OpInvert {
			return b.Float
		}
	}
	return tc.conflict(at, b.Int, t)
}

// visitCompare checks that ordered operands are comparable; every
// comparison yields bool.
func (tc *typeChecker) visitCompare(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	cmp, _ := tc.builder.Compare(id)
	left := tc.expr(scope, cmp.Left)
	rights := tc.exprs(scope, cmp.Comparators)
	if f, ok := tc.firstFail(append([]types.TypeID{left}, rights...)...); ok {
		return f
	}
	l := left
	for i, op := range cmp.Ops {
		if i >= len(rights) {
			break
		}
		r := rights[i]
		switch op {
		case ast.CmpLt, ast.CmpLtE, ast.CmpGt, ast.CmpGtE:
			if !tc.ordered(l, r) {
				return tc.conflict(id, l, r)
			}
		case ast.CmpIn, ast.CmpNotIn:
			if !tc.container(r) {
				return tc.fail(types.FailUnification, id,
					types.ConflictMessage(tc.site(id), "Iterable", tc.store.Render(r)))
			}
		}
		l = r
	}
	return tc.types.Builtins().Bool
}

func (tc *typeChecker) opaque(t types.TypeID) bool {
	if tc.isAny(t) || tc.store.IsFree(t) {
		return true
	}
	_, ok := tc.classOfInstance(t)
	return ok
}

func (tc *typeChecker) ordered(l, r types.TypeID) bool {
	if tc.opaque(l) || tc.opaque(r) {
		return true
	}
	if tc.isNumeric(l) && tc.isNumeric(r) {
		return true
	}
	ln := tc.store.Name(l)
	return ln == tc.store.Name(r) && ln != types.NameNone && ln != types.NameDict
}

func (tc *typeChecker) container(t types.TypeID) bool {
	if tc.opaque(t) {
		return true
	}
	fam, ok := tc.family(t)
	return ok && builtins.ClassIterable.Admits(fam)
}

func (tc *typeChecker) visitSubscript(scope symbols.ScopeID, id ast.NodeID) types.TypeID {
	sub, _ := tc.builder.Subscript(id)
	ct := tc.expr(scope, sub.Value)
	it := tc.expr(scope, sub.Index)
	if f, ok := tc.firstFail(ct, it); ok {
		return f
	}
	b := tc.types.Builtins()
	if tc.isAny(ct) {
		return b.Any
	}
	if tc.store.IsFree(ct) {
		return tc.store.Fresh()
	}
	args := tc.store.Args(ct)
	switch tc.store.Name(ct) {
	case types.NameList:
		if r := tc.unify(id, b.Int, it); tc.isFail(r) {
			return r
		}
		if len(args) == 1 {
			return args[0]
		}
		return b.Any
	case types.NameStr:
		if r := tc.unify(id, b.Int, it); tc.isFail(r) {
			return r
		}
		return b.Str
	case types.NameDict:
		if len(args) != 2 {
			return b.Any
		}
		if r := tc.unify(id, args[0], it); tc.isFail(r) {
			return r
		}
		return args[1]
	case types.NameTuple:
		if r := tc.unify(id, b.Int, it); tc.isFail(r) {
			return r
		}
		if i, ok := tc.constIndex(sub.Index); ok {
			if i < 0 {
				i += len(args)
			}
			if i >= 0 && i < len(args) {
				return args[i]
			}
		}
		if elem, ok := builtins.ElementOf(tc.store, ct); ok {
			return elem
		}
		return b.Any
	}
	if info, ok := tc.classOfInstance(ct); ok {
		if sym, ok := tc.member(info, "__getitem__"); ok && sym.Kind == symbols.SymbolFunction {
			return tc.apply(id, "__getitem__", tc.bindMethod(sym.Type), []types.TypeID{it}, nil)
		}
	}
	return tc.fail(types.FailUnification, id,
		types.ConflictMessage(tc.site(id), "Subscriptable", tc.store.Render(ct)))
}

// constIndex reads a literal integer index, allowing a leading minus.
func (tc *typeChecker) constIndex(id ast.NodeID) (int, bool) {
	sign := 1
	if u, ok := tc.builder.UnaryOp(id); ok && u.Op == ast.OpNeg {
		sign, id = -1, u.Operand
	}
	c, ok := tc.builder.Const(id)
	if !ok || c.Kind != ast.ConstInt {
		return 0, false
	}
	n, err := strconv.Atoi(c.Value)
	if err != nil {
		return 0, false
	}
	return sign * n, true
}
