package ast

import (
	"fmt"

	"duckcheck/internal/source"
)

// NodeKind is the closed set of node variants the checker consumes.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// Declarations and statements.
	KindModule
	KindClassDef
	KindFunctionDef
	KindArg
	KindAssign
	KindAnnAssign
	KindAugAssign
	KindReturn
	KindExpr
	KindIf
	KindWhile
	KindFor
	KindPass

	// Expressions.
	KindName
	KindConst
	KindAttribute
	KindCall
	KindList
	KindTuple
	KindSet
	KindDict
	KindBinOp
	KindUnaryOp
	KindCompare
	KindBoolOp
	KindSubscript

	kindCount
)

var kindNames = [...]string{
	KindInvalid:     "Invalid",
	KindModule:      "Module",
	KindClassDef:    "ClassDef",
	KindFunctionDef: "FunctionDef",
	KindArg:         "Arg",
	KindAssign:      "Assign",
	KindAnnAssign:   "AnnAssign",
	KindAugAssign:   "AugAssign",
	KindReturn:      "Return",
	KindExpr:        "Expr",
	KindIf:          "If",
	KindWhile:       "While",
	KindFor:         "For",
	KindPass:        "Pass",
	KindName:        "Name",
	KindConst:       "Const",
	KindAttribute:   "Attribute",
	KindCall:        "Call",
	KindList:        "List",
	KindTuple:       "Tuple",
	KindSet:         "Set",
	KindDict:        "Dict",
	KindBinOp:       "BinOp",
	KindUnaryOp:     "UnaryOp",
	KindCompare:     "Compare",
	KindBoolOp:      "BoolOp",
	KindSubscript:   "Subscript",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// ParseKind maps a document kind name back to its NodeKind.
func ParseKind(name string) (NodeKind, bool) {
	for k := KindModule; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return KindInvalid, false
}

// IsStmt reports whether nodes of this kind may stand in a body.
func (k NodeKind) IsStmt() bool {
	return k >= KindClassDef && k <= KindPass && k != KindArg
}

// IsExpr reports whether nodes of this kind denote a value.
func (k NodeKind) IsExpr() bool {
	return k >= KindName && k < kindCount
}

// Node is a single tagged node. Payload indexes the arena matching Kind.
type Node struct {
	Kind    NodeKind
	Span    source.Span
	Payload PayloadID
	Parent  NodeID
}

// Line is the 1-based source line reported by the parser.
func (n *Node) Line() uint32 { return n.Span.Line }

// ConstKind distinguishes literal constants.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstStr
	ConstBool
	ConstNone
)

var constKindNames = [...]string{"int", "float", "str", "bool", "None"}

func (k ConstKind) String() string {
	if int(k) < len(constKindNames) {
		return constKindNames[k]
	}
	return fmt.Sprintf("ConstKind(%d)", k)
}

// ParseConstKind maps a document const tag to its ConstKind.
func ParseConstKind(name string) (ConstKind, bool) {
	for i, n := range constKindNames {
		if n == name {
			return ConstKind(i), true
		}
	}
	return ConstNone, false
}

// BinaryOp enumerates arithmetic and bitwise operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMult
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLShift
	OpRShift
)

var binaryOpSymbols = [...]string{"+", "-", "*", "/", "//", "%", "**", "&", "|", "^", "<<", ">>"}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpSymbols) {
		return binaryOpSymbols[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", op)
}

// ParseBinaryOp maps an operator symbol to its BinaryOp.
func ParseBinaryOp(sym string) (BinaryOp, bool) {
	for i, s := range binaryOpSymbols {
		if s == sym {
			return BinaryOp(i), true
		}
	}
	return OpAdd, false
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	OpNeg UnaryOp = iota
	OpPos
	OpNot
	OpInvert
)

var unaryOpSymbols = [...]string{"-", "+", "not", "~"}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpSymbols) {
		return unaryOpSymbols[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", op)
}

// ParseUnaryOp maps an operator symbol to its UnaryOp.
func ParseUnaryOp(sym string) (UnaryOp, bool) {
	for i, s := range unaryOpSymbols {
		if s == sym {
			return UnaryOp(i), true
		}
	}
	return OpNeg, false
}

// CompareOp enumerates comparison operators.
type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

var compareOpSymbols = [...]string{"==", "!=", "<", "<=", ">", ">=", "is", "is not", "in", "not in"}

func (op CompareOp) String() string {
	if int(op) < len(compareOpSymbols) {
		return compareOpSymbols[op]
	}
	return fmt.Sprintf("CompareOp(%d)", op)
}

// ParseCompareOp maps an operator symbol to its CompareOp.
func ParseCompareOp(sym string) (CompareOp, bool) {
	for i, s := range compareOpSymbols {
		if s == sym {
			return CompareOp(i), true
		}
	}
	return CmpEq, false
}

// BoolOp is `and` / `or`.
type BoolOp uint8

const (
	OpAnd BoolOp = iota
	OpOr
)

func (op BoolOp) String() string {
	if op == OpOr {
		return "or"
	}
	return "and"
}
