package ast

import "duckcheck/internal/source"

type ModuleData struct {
	Name source.StringID
	Body []NodeID
}

type ClassDefData struct {
	Name  source.StringID
	Bases []NodeID
	Body  []NodeID
}

type FunctionDefData struct {
	Name    source.StringID
	Params  []NodeID // KindArg nodes, self first for methods
	Returns NodeID   // annotation expression or NoNodeID
	Body    []NodeID
}

type ArgData struct {
	Name       source.StringID
	Annotation NodeID
	Default    NodeID
}

type AssignData struct {
	Targets []NodeID
	Value   NodeID
}

type AnnAssignData struct {
	Target     NodeID
	Annotation NodeID
	Value      NodeID // may be NoNodeID
}

type AugAssignData struct {
	Target NodeID
	Op     BinaryOp
	Value  NodeID
}

// ValueData backs Return and Expr statements.
type ValueData struct {
	Value NodeID
}

// BranchData backs If and While.
type BranchData struct {
	Test   NodeID
	Body   []NodeID
	Orelse []NodeID
}

type ForData struct {
	Target NodeID
	Iter   NodeID
	Body   []NodeID
	Orelse []NodeID
}

type NameData struct {
	Name source.StringID
}

type ConstData struct {
	Kind  ConstKind
	Value string
}

type AttributeData struct {
	Value NodeID
	Attr  source.StringID
}

type CallData struct {
	Func NodeID
	Args []NodeID
}

// SeqData backs List, Tuple and Set displays.
type SeqData struct {
	Elts []NodeID
}

type DictData struct {
	Keys   []NodeID
	Values []NodeID
}

type BinOpData struct {
	Op    BinaryOp
	Left  NodeID
	Right NodeID
}

type UnaryOpData struct {
	Op      UnaryOp
	Operand NodeID
}

type CompareData struct {
	Left        NodeID
	Ops         []CompareOp
	Comparators []NodeID
}

type BoolOpData struct {
	Op     BoolOp
	Values []NodeID
}

type SubscriptData struct {
	Value NodeID
	Index NodeID
}
