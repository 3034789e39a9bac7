package ast

import (
	"slices"

	"duckcheck/internal/source"
)

type Hints struct{ Nodes uint }

// Builder owns every arena of one parsed module. Nodes are created
// bottom-up: constructors take already-built children and record
// themselves as their parent.
type Builder struct {
	File    source.FileID
	Strings *source.Interner

	Nodes      *Arena[Node]
	Modules    *Arena[ModuleData]
	Classes    *Arena[ClassDefData]
	Functions  *Arena[FunctionDefData]
	Args       *Arena[ArgData]
	Assigns    *Arena[AssignData]
	AnnAssigns *Arena[AnnAssignData]
	AugAssigns *Arena[AugAssignData]
	Values     *Arena[ValueData]
	Branches   *Arena[BranchData]
	Fors       *Arena[ForData]
	Names      *Arena[NameData]
	Consts     *Arena[ConstData]
	Attributes *Arena[AttributeData]
	Calls      *Arena[CallData]
	Seqs       *Arena[SeqData]
	Dicts      *Arena[DictData]
	BinOps     *Arena[BinOpData]
	UnaryOps   *Arena[UnaryOpData]
	Compares   *Arena[CompareData]
	BoolOps    *Arena[BoolOpData]
	Subscripts *Arena[SubscriptData]
}

func NewBuilder(file source.FileID, strings *source.Interner, hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 8
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	small := hints.Nodes/8 + 1
	return &Builder{
		File:       file,
		Strings:    strings,
		Nodes:      NewArena[Node](hints.Nodes),
		Modules:    NewArena[ModuleData](1),
		Classes:    NewArena[ClassDefData](small),
		Functions:  NewArena[FunctionDefData](small),
		Args:       NewArena[ArgData](small),
		Assigns:    NewArena[AssignData](small),
		AnnAssigns: NewArena[AnnAssignData](small),
		AugAssigns: NewArena[AugAssignData](small),
		Values:     NewArena[ValueData](small),
		Branches:   NewArena[BranchData](small),
		Fors:       NewArena[ForData](small),
		Names:      NewArena[NameData](hints.Nodes / 2),
		Consts:     NewArena[ConstData](small),
		Attributes: NewArena[AttributeData](small),
		Calls:      NewArena[CallData](small),
		Seqs:       NewArena[SeqData](small),
		Dicts:      NewArena[DictData](small),
		BinOps:     NewArena[BinOpData](small),
		UnaryOps:   NewArena[UnaryOpData](small),
		Compares:   NewArena[CompareData](small),
		BoolOps:    NewArena[BoolOpData](small),
		Subscripts: NewArena[SubscriptData](small),
	}
}

// Get returns the node with the given ID, or nil.
func (b *Builder) Get(id NodeID) *Node {
	return b.Nodes.Get(uint32(id))
}

// Len reports the number of allocated nodes.
func (b *Builder) Len() uint32 {
	return b.Nodes.Len()
}

// Kind returns the node kind, KindInvalid for unknown IDs.
func (b *Builder) Kind(id NodeID) NodeKind {
	if n := b.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

// Parent returns the enclosing node, NoNodeID for the module root.
func (b *Builder) Parent(id NodeID) NodeID {
	if n := b.Get(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Str resolves an interned identifier.
func (b *Builder) Str(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

func (b *Builder) node(kind NodeKind, span source.Span, payload uint32, children ...[]NodeID) NodeID {
	span.File = b.File
	id := NodeID(b.Nodes.Allocate(Node{Kind: kind, Span: span, Payload: PayloadID(payload)}))
	for _, group := range children {
		for _, child := range group {
			if n := b.Get(child); n != nil {
				n.Parent = id
			}
		}
	}
	return id
}

func ids(items ...NodeID) []NodeID {
	out := make([]NodeID, 0, len(items))
	for _, it := range items {
		if it.IsValid() {
			out = append(out, it)
		}
	}
	return out
}

func payloadOf[T any](b *Builder, id NodeID, arena *Arena[T], kinds ...NodeKind) (*T, bool) {
	n := b.Get(id)
	if n == nil || !slices.Contains(kinds, n.Kind) {
		return nil, false
	}
	return arena.Get(uint32(n.Payload)), true
}

// Constructors ---------------------------------------------------------------

func (b *Builder) NewModule(span source.Span, name string, body []NodeID) NodeID {
	p := b.Modules.Allocate(ModuleData{Name: b.Strings.Intern(name), Body: body})
	return b.node(KindModule, span, p, body)
}

func (b *Builder) NewClassDef(span source.Span, name string, bases, body []NodeID) NodeID {
	p := b.Classes.Allocate(ClassDefData{Name: b.Strings.Intern(name), Bases: bases, Body: body})
	return b.node(KindClassDef, span, p, bases, body)
}

func (b *Builder) NewFunctionDef(span source.Span, name string, params []NodeID, returns NodeID, body []NodeID) NodeID {
	p := b.Functions.Allocate(FunctionDefData{Name: b.Strings.Intern(name), Params: params, Returns: returns, Body: body})
	return b.node(KindFunctionDef, span, p, params, ids(returns), body)
}

func (b *Builder) NewArg(span source.Span, name string, annotation, def NodeID) NodeID {
	p := b.Args.Allocate(ArgData{Name: b.Strings.Intern(name), Annotation: annotation, Default: def})
	return b.node(KindArg, span, p, ids(annotation, def))
}

func (b *Builder) NewAssign(span source.Span, targets []NodeID, value NodeID) NodeID {
	p := b.Assigns.Allocate(AssignData{Targets: targets, Value: value})
	return b.node(KindAssign, span, p, targets, ids(value))
}

func (b *Builder) NewAnnAssign(span source.Span, target, annotation, value NodeID) NodeID {
	p := b.AnnAssigns.Allocate(AnnAssignData{Target: target, Annotation: annotation, Value: value})
	return b.node(KindAnnAssign, span, p, ids(target, annotation, value))
}

func (b *Builder) NewAugAssign(span source.Span, target NodeID, op BinaryOp, value NodeID) NodeID {
	p := b.AugAssigns.Allocate(AugAssignData{Target: target, Op: op, Value: value})
	return b.node(KindAugAssign, span, p, ids(target, value))
}

func (b *Builder) NewReturn(span source.Span, value NodeID) NodeID {
	p := b.Values.Allocate(ValueData{Value: value})
	return b.node(KindReturn, span, p, ids(value))
}

func (b *Builder) NewExprStmt(span source.Span, value NodeID) NodeID {
	p := b.Values.Allocate(ValueData{Value: value})
	return b.node(KindExpr, span, p, ids(value))
}

func (b *Builder) NewIf(span source.Span, test NodeID, body, orelse []NodeID) NodeID {
	p := b.Branches.Allocate(BranchData{Test: test, Body: body, Orelse: orelse})
	return b.node(KindIf, span, p, ids(test), body, orelse)
}

func (b *Builder) NewWhile(span source.Span, test NodeID, body, orelse []NodeID) NodeID {
	p := b.Branches.Allocate(BranchData{Test: test, Body: body, Orelse: orelse})
	return b.node(KindWhile, span, p, ids(test), body, orelse)
}

func (b *Builder) NewFor(span source.Span, target, iter NodeID, body, orelse []NodeID) NodeID {
	p := b.Fors.Allocate(ForData{Target: target, Iter: iter, Body: body, Orelse: orelse})
	return b.node(KindFor, span, p, ids(target, iter), body, orelse)
}

func (b *Builder) NewPass(span source.Span) NodeID {
	return b.node(KindPass, span, 0)
}

func (b *Builder) NewName(span source.Span, name string) NodeID {
	p := b.Names.Allocate(NameData{Name: b.Strings.Intern(name)})
	return b.node(KindName, span, p)
}

func (b *Builder) NewConst(span source.Span, kind ConstKind, value string) NodeID {
	p := b.Consts.Allocate(ConstData{Kind: kind, Value: value})
	return b.node(KindConst, span, p)
}

func (b *Builder) NewAttribute(span source.Span, value NodeID, attr string) NodeID {
	p := b.Attributes.Allocate(AttributeData{Value: value, Attr: b.Strings.Intern(attr)})
	return b.node(KindAttribute, span, p, ids(value))
}

func (b *Builder) NewCall(span source.Span, fn NodeID, args []NodeID) NodeID {
	p := b.Calls.Allocate(CallData{Func: fn, Args: args})
	return b.node(KindCall, span, p, ids(fn), args)
}

// NewSeq builds a List, Tuple or Set display.
func (b *Builder) NewSeq(span source.Span, kind NodeKind, elts []NodeID) NodeID {
	switch kind {
	case KindList, KindTuple, KindSet:
	default:
		panic("ast.NewSeq: kind must be List, Tuple or Set")
	}
	p := b.Seqs.Allocate(SeqData{Elts: elts})
	return b.node(kind, span, p, elts)
}

func (b *Builder) NewDict(span source.Span, keys, values []NodeID) NodeID {
	p := b.Dicts.Allocate(DictData{Keys: keys, Values: values})
	return b.node(KindDict, span, p, keys, values)
}

func (b *Builder) NewBinOp(span source.Span, op BinaryOp, left, right NodeID) NodeID {
	p := b.BinOps.Allocate(BinOpData{Op: op, Left: left, Right: right})
	return b.node(KindBinOp, span, p, ids(left, right))
}

func (b *Builder) NewUnaryOp(span source.Span, op UnaryOp, operand NodeID) NodeID {
	p := b.UnaryOps.Allocate(UnaryOpData{Op: op, Operand: operand})
	return b.node(KindUnaryOp, span, p, ids(operand))
}

func (b *Builder) NewCompare(span source.Span, left NodeID, ops []CompareOp, comparators []NodeID) NodeID {
	p := b.Compares.Allocate(CompareData{Left: left, Ops: ops, Comparators: comparators})
	return b.node(KindCompare, span, p, ids(left), comparators)
}

func (b *Builder) NewBoolOp(span source.Span, op BoolOp, values []NodeID) NodeID {
	p := b.BoolOps.Allocate(BoolOpData{Op: op, Values: values})
	return b.node(KindBoolOp, span, p, values)
}

func (b *Builder) NewSubscript(span source.Span, value, index NodeID) NodeID {
	p := b.Subscripts.Allocate(SubscriptData{Value: value, Index: index})
	return b.node(KindSubscript, span, p, ids(value, index))
}

// Accessors ------------------------------------------------------------------

func (b *Builder) Module(id NodeID) (*ModuleData, bool) {
	return payloadOf(b, id, b.Modules, KindModule)
}

func (b *Builder) ClassDef(id NodeID) (*ClassDefData, bool) {
	return payloadOf(b, id, b.Classes, KindClassDef)
}

func (b *Builder) FunctionDef(id NodeID) (*FunctionDefData, bool) {
	return payloadOf(b, id, b.Functions, KindFunctionDef)
}

func (b *Builder) Arg(id NodeID) (*ArgData, bool) {
	return payloadOf(b, id, b.Args, KindArg)
}

func (b *Builder) Assign(id NodeID) (*AssignData, bool) {
	return payloadOf(b, id, b.Assigns, KindAssign)
}

func (b *Builder) AnnAssign(id NodeID) (*AnnAssignData, bool) {
	return payloadOf(b, id, b.AnnAssigns, KindAnnAssign)
}

func (b *Builder) AugAssign(id NodeID) (*AugAssignData, bool) {
	return payloadOf(b, id, b.AugAssigns, KindAugAssign)
}

// Value returns the payload of Return and Expr statements.
func (b *Builder) Value(id NodeID) (*ValueData, bool) {
	return payloadOf(b, id, b.Values, KindReturn, KindExpr)
}

// Branch returns the payload of If and While statements.
func (b *Builder) Branch(id NodeID) (*BranchData, bool) {
	return payloadOf(b, id, b.Branches, KindIf, KindWhile)
}

func (b *Builder) For(id NodeID) (*ForData, bool) {
	return payloadOf(b, id, b.Fors, KindFor)
}

func (b *Builder) Name(id NodeID) (*NameData, bool) {
	return payloadOf(b, id, b.Names, KindName)
}

func (b *Builder) Const(id NodeID) (*ConstData, bool) {
	return payloadOf(b, id, b.Consts, KindConst)
}

func (b *Builder) Attribute(id NodeID) (*AttributeData, bool) {
	return payloadOf(b, id, b.Attributes, KindAttribute)
}

func (b *Builder) Call(id NodeID) (*CallData, bool) {
	return payloadOf(b, id, b.Calls, KindCall)
}

// Seq returns the payload of List, Tuple and Set displays.
func (b *Builder) Seq(id NodeID) (*SeqData, bool) {
	return payloadOf(b, id, b.Seqs, KindList, KindTuple, KindSet)
}

func (b *Builder) Dict(id NodeID) (*DictData, bool) {
	return payloadOf(b, id, b.Dicts, KindDict)
}

func (b *Builder) BinOp(id NodeID) (*BinOpData, bool) {
	return payloadOf(b, id, b.BinOps, KindBinOp)
}

func (b *Builder) UnaryOp(id NodeID) (*UnaryOpData, bool) {
	return payloadOf(b, id, b.UnaryOps, KindUnaryOp)
}

func (b *Builder) Compare(id NodeID) (*CompareData, bool) {
	return payloadOf(b, id, b.Compares, KindCompare)
}

func (b *Builder) BoolOp(id NodeID) (*BoolOpData, bool) {
	return payloadOf(b, id, b.BoolOps, KindBoolOp)
}

func (b *Builder) Subscript(id NodeID) (*SubscriptData, bool) {
	return payloadOf(b, id, b.Subscripts, KindSubscript)
}
