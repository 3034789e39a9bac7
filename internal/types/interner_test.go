package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Int == NoTypeID || b.Str == NoTypeID || b.None == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	tt, _ := in.Lookup(b.None)
	if tt.Kind != KindConcrete || tt.Name != NameNone {
		t.Fatalf("unexpected NoneType descriptor: %+v", tt)
	}
}

func TestInternerDeduplicatesConcrete(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	l1 := in.Concrete(NameList, b.Int)
	l2 := in.Concrete(NameList, b.Int)
	if l1 != l2 {
		t.Fatalf("List[int] should be deduplicated")
	}
	if in.Concrete(NameList, b.Str) == l1 {
		t.Fatalf("List[str] must differ from List[int]")
	}
	if in.Forward("Network") != in.Forward("Network") {
		t.Fatalf("forward refs should be deduplicated by name")
	}
}

func TestVarsAndFailsAreFresh(t *testing.T) {
	in := NewInterner()
	if in.NewVar() == in.NewVar() {
		t.Fatalf("variables must be fresh")
	}
	info := FailInfo{Kind: FailUnification, Message: "boom"}
	f1, f2 := in.NewFail(info), in.NewFail(info)
	if f1 == f2 {
		t.Fatalf("failures must be fresh")
	}
	got, ok := in.Fail(f2)
	if !ok || got.Message != "boom" {
		t.Fatalf("fail payload lost: %+v", got)
	}
	if _, ok := in.Fail(in.Builtins().Int); ok {
		t.Fatalf("int is not a failure")
	}
}

func TestRender(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	cases := []struct {
		id   TypeID
		want string
	}{
		{b.Int, "int"},
		{b.None, "NoneType"},
		{in.Concrete(NameList, b.Int), "List[int]"},
		{in.Concrete(NameDict, b.Str, b.Int), "Dict[str, int]"},
		{in.Concrete(NameTuple), "Tuple[()]"},
		{in.Callable([]TypeID{b.Int}, b.Str), "Callable[[int], str]"},
		{in.Callable(nil, b.None), "Callable[[], NoneType]"},
		{in.ClassObject("Network"), "Type[Network]"},
		{in.NewFail(FailInfo{}), "TypeFail"},
	}
	for _, tc := range cases {
		if got := in.Render(tc.id, nil); got != tc.want {
			t.Fatalf("Render = %q, want %q", got, tc.want)
		}
	}
	v := in.NewVar()
	if got := in.Render(v, nil); got != "~T1" {
		t.Fatalf("var renders as %q", got)
	}
}

func TestMessages(t *testing.T) {
	want := "Attribute access error!\nIn the Attribute node in line 2:\nthe object \"x\" does not have the attribute \"wrong_name\"."
	if got := AttributeMessage(2, "x", "wrong_name"); got != want {
		t.Fatalf("got %q", got)
	}
	want = "In the Call node in line 2, when calling the method \"append\":\n" +
		"this function expects to be called on an object of the class List, but was called on an object of inferred type int."
	if got := SelfTypeMessage(2, "append", "List", "int"); got != want {
		t.Fatalf("got %q", got)
	}
	want = "In the Call node in line 2, when calling the method \"extend\":\n" +
		"in parameter (1), the function was expecting an object of type iterable but was given an object of type int."
	if got := ArgumentMessage(2, "extend", 1, "iterable", "int"); got != want {
		t.Fatalf("got %q", got)
	}
}
