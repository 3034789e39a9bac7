package ast

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleJSON = `{
  "kind": "Module", "name": "m", "line": 1,
  "children": {"body": [
    {"kind": "ClassDef", "name": "Person", "line": 1, "children": {"body": [
      {"kind": "FunctionDef", "name": "__init__", "line": 2, "children": {
        "args": [{"kind": "Arg", "name": "self", "line": 2}, {"kind": "Arg", "name": "name", "line": 2}],
        "body": [{"kind": "Assign", "line": 3, "children": {
          "targets": [{"kind": "Attribute", "attr": "name", "line": 3, "children": {"value": [{"kind": "Name", "name": "self", "line": 3}]}}],
          "value": [{"kind": "Name", "name": "name", "line": 3}]
        }}]
      }}
    ]}},
    {"kind": "Expr", "line": 5, "children": {"value": [
      {"kind": "Compare", "ops": ["<"], "line": 5, "children": {
        "left": [{"kind": "Const", "const": "int", "value": "1", "line": 5}],
        "comparators": [{"kind": "Const", "const": "int", "value": "2", "line": 5}]
      }}
    ]}}
  ]}
}`

func TestBuildFromJSON(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleJSON), DocJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := NewBuilder(0, nil, Hints{})
	root, err := Build(b, doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	mod, ok := b.Module(root)
	if !ok || len(mod.Body) != 2 {
		t.Fatalf("module body = %v", mod)
	}
	cls, ok := b.ClassDef(mod.Body[0])
	if !ok || b.Str(cls.Name) != "Person" {
		t.Fatalf("class = %v", cls)
	}
	fn, ok := b.FunctionDef(cls.Body[0])
	if !ok || len(fn.Params) != 2 {
		t.Fatalf("function = %v", fn)
	}
	var attrs []string
	b.Walk(root, func(id NodeID, _ int) bool {
		if b.Kind(id) == KindAttribute {
			attrs = append(attrs, b.Format(id))
		}
		return true
	})
	if len(attrs) != 1 || attrs[0] != "self.name" {
		t.Fatalf("attributes = %v", attrs)
	}
}

func TestDocumentRoundTripAcrossFormats(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleJSON), DocJSON)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := NewBuilder(0, nil, Hints{})
	root, err := Build(b, doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var want bytes.Buffer
	if err := b.Dump(&want, root, nil); err != nil {
		t.Fatalf("dump: %v", err)
	}

	for _, format := range []DocFormat{DocJSON, DocMsgpack, DocYAML} {
		var buf bytes.Buffer
		if err := b.Export(root).Encode(&buf, format); err != nil {
			t.Fatalf("%s encode: %v", format, err)
		}
		back, err := DecodeDocument(&buf, format)
		if err != nil {
			t.Fatalf("%s decode: %v", format, err)
		}
		b2 := NewBuilder(0, nil, Hints{})
		root2, err := Build(b2, back)
		if err != nil {
			t.Fatalf("%s build: %v", format, err)
		}
		var got bytes.Buffer
		if err := b2.Dump(&got, root2, nil); err != nil {
			t.Fatalf("dump: %v", err)
		}
		if got.String() != want.String() {
			t.Fatalf("%s round trip mismatch:\n%s\nwant:\n%s", format, got.String(), want.String())
		}
	}
}

func TestBuildRejectsUnknownKind(t *testing.T) {
	doc := &Document{Kind: "Lambda", Line: 4}
	_, err := Build(NewBuilder(0, nil, Hints{}), doc)
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
	if !strings.Contains(err.Error(), "Lambda") {
		t.Fatalf("error should name the kind: %v", err)
	}
}

func TestBuildRejectsMissingChild(t *testing.T) {
	doc := &Document{Kind: "Attribute", Attr: "x", Line: 2}
	_, err := Build(NewBuilder(0, nil, Hints{}), doc)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestBuildRejectsChildOfWrongKind(t *testing.T) {
	cases := map[string]string{
		"name as parameter": `{"kind": "Module", "line": 1, "children": {"body": [
			{"kind": "FunctionDef", "name": "f", "line": 1, "children": {
				"args": [{"kind": "Name", "name": "a", "line": 1}],
				"body": [{"kind": "Pass", "line": 2}]
			}}
		]}}`,
		"arg in body": `{"kind": "Module", "line": 1, "children": {"body": [
			{"kind": "Arg", "name": "a", "line": 1}
		]}}`,
		"module in body": `{"kind": "Module", "line": 1, "children": {"body": [
			{"kind": "Module", "line": 1}
		]}}`,
		"statement as operand": `{"kind": "BinOp", "op": "+", "line": 1, "children": {
			"left": [{"kind": "Pass", "line": 1}],
			"right": [{"kind": "Const", "const": "int", "value": "1", "line": 1}]
		}}`,
		"null body entry": `{"kind": "Module", "line": 1, "children": {"body": [null]}}`,
	}
	for name, src := range cases {
		doc, err := DecodeBytes([]byte(src), DocJSON)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if _, err := Build(NewBuilder(0, nil, Hints{}), doc); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: err = %v, want ErrMalformed", name, err)
		}
	}
}

func TestRoleAdmits(t *testing.T) {
	if !RoleAdmits(KindCall, "args", KindName) {
		t.Fatalf("call arguments are expressions")
	}
	if RoleAdmits(KindCall, "args", KindArg) {
		t.Fatalf("Arg is not a call argument")
	}
	if !RoleAdmits(KindModule, "body", KindCall) {
		t.Fatalf("bare expressions may stand in a body")
	}
	if RoleAdmits(KindIf, "test", KindAssign) {
		t.Fatalf("an if test must be an expression")
	}
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]DocFormat{"a.json": DocJSON, "b.ast.msgpack": DocMsgpack, "c.YML": DocYAML}
	for path, want := range cases {
		got, ok := FormatForPath(path)
		if !ok || got != want {
			t.Fatalf("FormatForPath(%q) = %v %v", path, got, ok)
		}
	}
	if _, ok := FormatForPath("x.py"); ok {
		t.Fatalf("unexpected format for .py")
	}
}
