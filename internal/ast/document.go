package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"duckcheck/internal/source"
)

// ErrUnknownKind is returned when a document names a node kind outside the
// recognised set.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrMalformed wraps structural problems in a document (missing required
// children, bad operator symbols).
var ErrMalformed = errors.New("malformed AST document")

// DocFormat selects the serialization of an AST document.
type DocFormat uint8

const (
	DocJSON DocFormat = iota
	DocMsgpack
	DocYAML
)

func (f DocFormat) String() string {
	switch f {
	case DocMsgpack:
		return "msgpack"
	case DocYAML:
		return "yaml"
	default:
		return "json"
	}
}

// FormatForPath picks a document format from the file extension.
func FormatForPath(path string) (DocFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DocJSON, true
	case ".msgpack", ".mp":
		return DocMsgpack, true
	case ".yaml", ".yml":
		return DocYAML, true
	}
	return DocJSON, false
}

// Document is the parser-neutral interchange form of one node.
type Document struct {
	Kind     string                 `json:"kind" msgpack:"kind" yaml:"kind"`
	Line     uint32                 `json:"line,omitempty" msgpack:"line,omitempty" yaml:"line,omitempty"`
	Col      uint32                 `json:"col,omitempty" msgpack:"col,omitempty" yaml:"col,omitempty"`
	EndLine  uint32                 `json:"end_line,omitempty" msgpack:"end_line,omitempty" yaml:"end_line,omitempty"`
	EndCol   uint32                 `json:"end_col,omitempty" msgpack:"end_col,omitempty" yaml:"end_col,omitempty"`
	Name     string                 `json:"name,omitempty" msgpack:"name,omitempty" yaml:"name,omitempty"`
	Attr     string                 `json:"attr,omitempty" msgpack:"attr,omitempty" yaml:"attr,omitempty"`
	Op       string                 `json:"op,omitempty" msgpack:"op,omitempty" yaml:"op,omitempty"`
	Ops      []string               `json:"ops,omitempty" msgpack:"ops,omitempty" yaml:"ops,omitempty"`
	Value    string                 `json:"value,omitempty" msgpack:"value,omitempty" yaml:"value,omitempty"`
	Const    string                 `json:"const,omitempty" msgpack:"const,omitempty" yaml:"const,omitempty"`
	Children map[string][]*Document `json:"children,omitempty" msgpack:"children,omitempty" yaml:"children,omitempty"`
}

// DecodeDocument reads one document tree in the given format.
func DecodeDocument(r io.Reader, format DocFormat) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case DocMsgpack:
		err = msgpack.NewDecoder(r).Decode(doc)
	case DocYAML:
		err = yaml.NewDecoder(r).Decode(doc)
	default:
		err = json.NewDecoder(r).Decode(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", format, err)
	}
	return doc, nil
}

// DecodeBytes is DecodeDocument over an in-memory buffer.
func DecodeBytes(data []byte, format DocFormat) (*Document, error) {
	return DecodeDocument(bytes.NewReader(data), format)
}

// Encode writes doc in the given format.
func (doc *Document) Encode(w io.Writer, format DocFormat) error {
	switch format {
	case DocMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	case DocYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}

func (doc *Document) span() source.Span {
	s := source.Span{Line: doc.Line, Col: doc.Col, EndLine: doc.EndLine, EndCol: doc.EndCol}
	if s.EndLine == 0 {
		s.EndLine, s.EndCol = s.Line, s.Col
	}
	return s
}

func (doc *Document) many(role string) []*Document {
	return doc.Children[role]
}

func (doc *Document) one(role string) *Document {
	list := doc.Children[role]
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// Build materializes doc into b and returns the root node.
func Build(b *Builder, doc *Document) (NodeID, error) {
	if doc == nil {
		return NoNodeID, nil
	}
	kind, ok := ParseKind(doc.Kind)
	if !ok || kind == KindInvalid {
		return NoNodeID, fmt.Errorf("%w: %q at line %d", ErrUnknownKind, doc.Kind, doc.Line)
	}
	span := doc.span()

	child := func(role string, item *Document) (NodeID, error) {
		id, err := Build(b, item)
		if err != nil {
			return NoNodeID, err
		}
		if got := b.Kind(id); !RoleAdmits(kind, role, got) {
			return NoNodeID, fmt.Errorf("%w: %s at line %d cannot hold %s in %q", ErrMalformed, doc.Kind, doc.Line, got, role)
		}
		return id, nil
	}
	list := func(role string) ([]NodeID, error) {
		items := doc.many(role)
		out := make([]NodeID, 0, len(items))
		for _, item := range items {
			id, err := child(role, item)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
		return out, nil
	}
	single := func(role string) (NodeID, error) {
		item := doc.one(role)
		if item == nil {
			return NoNodeID, nil
		}
		return child(role, item)
	}
	required := func(role string) (NodeID, error) {
		if doc.one(role) == nil {
			return NoNodeID, fmt.Errorf("%w: %s at line %d has no %q", ErrMalformed, doc.Kind, doc.Line, role)
		}
		return single(role)
	}

	var err error
	switch kind {
	case KindModule:
		var body []NodeID
		if body, err = list("body"); err != nil {
			return NoNodeID, err
		}
		return b.NewModule(span, doc.Name, body), nil

	case KindClassDef:
		var bases, body []NodeID
		if bases, err = list("bases"); err != nil {
			return NoNodeID, err
		}
		if body, err = list("body"); err != nil {
			return NoNodeID, err
		}
		return b.NewClassDef(span, doc.Name, bases, body), nil

	case KindFunctionDef:
		var params, body []NodeID
		var returns NodeID
		if params, err = list("args"); err != nil {
			return NoNodeID, err
		}
		if returns, err = single("returns"); err != nil {
			return NoNodeID, err
		}
		if body, err = list("body"); err != nil {
			return NoNodeID, err
		}
		return b.NewFunctionDef(span, doc.Name, params, returns, body), nil

	case KindArg:
		var ann, def NodeID
		if ann, err = single("annotation"); err != nil {
			return NoNodeID, err
		}
		if def, err = single("default"); err != nil {
			return NoNodeID, err
		}
		return b.NewArg(span, doc.Name, ann, def), nil

	case KindAssign:
		var targets []NodeID
		var value NodeID
		if targets, err = list("targets"); err != nil {
			return NoNodeID, err
		}
		if value, err = required("value"); err != nil {
			return NoNodeID, err
		}
		return b.NewAssign(span, targets, value), nil

	case KindAnnAssign:
		var target, ann, value NodeID
		if target, err = required("target"); err != nil {
			return NoNodeID, err
		}
		if ann, err = required("annotation"); err != nil {
			return NoNodeID, err
		}
		if value, err = single("value"); err != nil {
			return NoNodeID, err
		}
		return b.NewAnnAssign(span, target, ann, value), nil

	case KindAugAssign:
		op, ok := ParseBinaryOp(strings.TrimSuffix(doc.Op, "="))
		if !ok {
			return NoNodeID, fmt.Errorf("%w: bad operator %q at line %d", ErrMalformed, doc.Op, doc.Line)
		}
		var target, value NodeID
		if target, err = required("target"); err != nil {
			return NoNodeID, err
		}
		if value, err = required("value"); err != nil {
			return NoNodeID, err
		}
		return b.NewAugAssign(span, target, op, value), nil

	case KindReturn, KindExpr:
		var value NodeID
		if kind == KindExpr {
			value, err = required("value")
		} else {
			value, err = single("value")
		}
		if err != nil {
			return NoNodeID, err
		}
		if kind == KindReturn {
			return b.NewReturn(span, value), nil
		}
		return b.NewExprStmt(span, value), nil

	case KindIf, KindWhile:
		var test NodeID
		var body, orelse []NodeID
		if test, err = required("test"); err != nil {
			return NoNodeID, err
		}
		if body, err = list("body"); err != nil {
			return NoNodeID, err
		}
		if orelse, err = list("orelse"); err != nil {
			return NoNodeID, err
		}
		if kind == KindIf {
			return b.NewIf(span, test, body, orelse), nil
		}
		return b.NewWhile(span, test, body, orelse), nil

	case KindFor:
		var target, iter NodeID
		var body, orelse []NodeID
		if target, err = required("target"); err != nil {
			return NoNodeID, err
		}
		if iter, err = required("iter"); err != nil {
			return NoNodeID, err
		}
		if body, err = list("body"); err != nil {
			return NoNodeID, err
		}
		if orelse, err = list("orelse"); err != nil {
			return NoNodeID, err
		}
		return b.NewFor(span, target, iter, body, orelse), nil

	case KindPass:
		return b.NewPass(span), nil

	case KindName:
		if doc.Name == "" {
			return NoNodeID, fmt.Errorf("%w: Name at line %d has no name", ErrMalformed, doc.Line)
		}
		return b.NewName(span, doc.Name), nil

	case KindConst:
		ck, ok := ParseConstKind(doc.Const)
		if !ok {
			return NoNodeID, fmt.Errorf("%w: bad const tag %q at line %d", ErrMalformed, doc.Const, doc.Line)
		}
		return b.NewConst(span, ck, doc.Value), nil

	case KindAttribute:
		var value NodeID
		if value, err = required("value"); err != nil {
			return NoNodeID, err
		}
		return b.NewAttribute(span, value, doc.Attr), nil

	case KindCall:
		var fn NodeID
		var args []NodeID
		if fn, err = required("func"); err != nil {
			return NoNodeID, err
		}
		if args, err = list("args"); err != nil {
			return NoNodeID, err
		}
		return b.NewCall(span, fn, args), nil

	case KindList, KindTuple, KindSet:
		var elts []NodeID
		if elts, err = list("elts"); err != nil {
			return NoNodeID, err
		}
		return b.NewSeq(span, kind, elts), nil

	case KindDict:
		var keys, values []NodeID
		if keys, err = list("keys"); err != nil {
			return NoNodeID, err
		}
		if values, err = list("values"); err != nil {
			return NoNodeID, err
		}
		if len(keys) != len(values) {
			return NoNodeID, fmt.Errorf("%w: Dict at line %d has %d keys and %d values", ErrMalformed, doc.Line, len(keys), len(values))
		}
		return b.NewDict(span, keys, values), nil

	case KindBinOp:
		op, ok := ParseBinaryOp(doc.Op)
		if !ok {
			return NoNodeID, fmt.Errorf("%w: bad operator %q at line %d", ErrMalformed, doc.Op, doc.Line)
		}
		var left, right NodeID
		if left, err = required("left"); err != nil {
			return NoNodeID, err
		}
		if right, err = required("right"); err != nil {
			return NoNodeID, err
		}
		return b.NewBinOp(span, op, left, right), nil

	case KindUnaryOp:
		op, ok := ParseUnaryOp(doc.Op)
		if !ok {
			return NoNodeID, fmt.Errorf("%w: bad operator %q at line %d", ErrMalformed, doc.Op, doc.Line)
		}
		var operand NodeID
		if operand, err = required("operand"); err != nil {
			return NoNodeID, err
		}
		return b.NewUnaryOp(span, op, operand), nil

	case KindCompare:
		ops := make([]CompareOp, 0, len(doc.Ops))
		for _, sym := range doc.Ops {
			op, ok := ParseCompareOp(sym)
			if !ok {
				return NoNodeID, fmt.Errorf("%w: bad comparison %q at line %d", ErrMalformed, sym, doc.Line)
			}
			ops = append(ops, op)
		}
		var left NodeID
		var comparators []NodeID
		if left, err = required("left"); err != nil {
			return NoNodeID, err
		}
		if comparators, err = list("comparators"); err != nil {
			return NoNodeID, err
		}
		if len(ops) != len(comparators) {
			return NoNodeID, fmt.Errorf("%w: Compare at line %d has %d operators and %d operands", ErrMalformed, doc.Line, len(ops), len(comparators))
		}
		return b.NewCompare(span, left, ops, comparators), nil

	case KindBoolOp:
		op := OpAnd
		switch doc.Op {
		case "and", "":
		case "or":
			op = OpOr
		default:
			return NoNodeID, fmt.Errorf("%w: bad boolean operator %q at line %d", ErrMalformed, doc.Op, doc.Line)
		}
		var values []NodeID
		if values, err = list("values"); err != nil {
			return NoNodeID, err
		}
		return b.NewBoolOp(span, op, values), nil

	case KindSubscript:
		var value, index NodeID
		if value, err = required("value"); err != nil {
			return NoNodeID, err
		}
		if index, err = required("slice"); err != nil {
			return NoNodeID, err
		}
		return b.NewSubscript(span, value, index), nil
	}
	return NoNodeID, fmt.Errorf("%w: %q at line %d", ErrUnknownKind, doc.Kind, doc.Line)
}

// RoleAdmits reports whether a child of kind child may fill role under a
// parent of kind parent. Bodies hold statements or bare expressions, a
// FunctionDef's args hold Arg nodes, and every other role holds an
// expression.
func RoleAdmits(parent NodeKind, role string, child NodeKind) bool {
	switch {
	case role == "body" || role == "orelse":
		return child.IsStmt() || child.IsExpr()
	case parent == KindFunctionDef && role == "args":
		return child == KindArg
	}
	return child.IsExpr()
}

// Export converts the subtree at id back into a Document.
func (b *Builder) Export(id NodeID) *Document {
	n := b.Get(id)
	if n == nil {
		return nil
	}
	doc := &Document{
		Kind:    n.Kind.String(),
		Line:    n.Span.Line,
		Col:     n.Span.Col,
		EndLine: n.Span.EndLine,
		EndCol:  n.Span.EndCol,
	}
	set := func(role string, items ...NodeID) {
		for _, it := range items {
			if !it.IsValid() {
				continue
			}
			if doc.Children == nil {
				doc.Children = make(map[string][]*Document)
			}
			doc.Children[role] = append(doc.Children[role], b.Export(it))
		}
	}
	switch n.Kind {
	case KindModule:
		d, _ := b.Module(id)
		doc.Name = b.Str(d.Name)
		set("body", d.Body...)
	case KindClassDef:
		d, _ := b.ClassDef(id)
		doc.Name = b.Str(d.Name)
		set("bases", d.Bases...)
		set("body", d.Body...)
	case KindFunctionDef:
		d, _ := b.FunctionDef(id)
		doc.Name = b.Str(d.Name)
		set("args", d.Params...)
		set("returns", d.Returns)
		set("body", d.Body...)
	case KindArg:
		d, _ := b.Arg(id)
		doc.Name = b.Str(d.Name)
		set("annotation", d.Annotation)
		set("default", d.Default)
	case KindAssign:
		d, _ := b.Assign(id)
		set("targets", d.Targets...)
		set("value", d.Value)
	case KindAnnAssign:
		d, _ := b.AnnAssign(id)
		set("target", d.Target)
		set("annotation", d.Annotation)
		set("value", d.Value)
	case KindAugAssign:
		d, _ := b.AugAssign(id)
		doc.Op = d.Op.String()
		set("target", d.Target)
		set("value", d.Value)
	case KindReturn, KindExpr:
		d, _ := b.Value(id)
		set("value", d.Value)
	case KindIf, KindWhile:
		d, _ := b.Branch(id)
		set("test", d.Test)
		set("body", d.Body...)
		set("orelse", d.Orelse...)
	case KindFor:
		d, _ := b.For(id)
		set("target", d.Target)
		set("iter", d.Iter)
		set("body", d.Body...)
		set("orelse", d.Orelse...)
	case KindName:
		d, _ := b.Name(id)
		doc.Name = b.Str(d.Name)
	case KindConst:
		d, _ := b.Const(id)
		doc.Const = d.Kind.String()
		doc.Value = d.Value
	case KindAttribute:
		d, _ := b.Attribute(id)
		doc.Attr = b.Str(d.Attr)
		set("value", d.Value)
	case KindCall:
		d, _ := b.Call(id)
		set("func", d.Func)
		set("args", d.Args...)
	case KindList, KindTuple, KindSet:
		d, _ := b.Seq(id)
		set("elts", d.Elts...)
	case KindDict:
		d, _ := b.Dict(id)
		set("keys", d.Keys...)
		set("values", d.Values...)
	case KindBinOp:
		d, _ := b.BinOp(id)
		doc.Op = d.Op.String()
		set("left", d.Left)
		set("right", d.Right)
	case KindUnaryOp:
		d, _ := b.UnaryOp(id)
		doc.Op = d.Op.String()
		set("operand", d.Operand)
	case KindCompare:
		d, _ := b.Compare(id)
		for _, op := range d.Ops {
			doc.Ops = append(doc.Ops, op.String())
		}
		set("left", d.Left)
		set("comparators", d.Comparators...)
	case KindBoolOp:
		d, _ := b.BoolOp(id)
		doc.Op = d.Op.String()
		set("values", d.Values...)
	case KindSubscript:
		d, _ := b.Subscript(id)
		set("value", d.Value)
		set("slice", d.Index)
	}
	return doc
}
