package ast

import "testing"

func TestFormatExpressions(t *testing.T) {
	b := NewBuilder(0, nil, Hints{})
	self := b.NewName(at(1), "self")
	attr := b.NewAttribute(at(1), self, "name")
	call := b.NewCall(at(1), b.NewAttribute(at(1), b.NewName(at(1), "x"), "append"), []NodeID{b.NewConst(at(1), ConstFloat, "1.0")})
	sum := b.NewBinOp(at(1), OpAdd, b.NewBinOp(at(1), OpMult, b.NewName(at(1), "a"), b.NewName(at(1), "b")), b.NewConst(at(1), ConstInt, "2"))
	str := b.NewConst(at(1), ConstStr, "BoB")
	tuple := b.NewSeq(at(1), KindTuple, []NodeID{b.NewConst(at(1), ConstInt, "1")})
	dict := b.NewDict(at(1), []NodeID{b.NewConst(at(1), ConstStr, "k")}, []NodeID{b.NewConst(at(1), ConstBool, "True")})
	cmp := b.NewCompare(at(1), b.NewName(at(1), "i"), []CompareOp{CmpNotIn}, []NodeID{b.NewName(at(1), "xs")})
	neg := b.NewUnaryOp(at(1), OpNot, b.NewName(at(1), "ok"))
	sub := b.NewSubscript(at(1), b.NewName(at(1), "xs"), b.NewConst(at(1), ConstInt, "0"))
	none := b.NewConst(at(1), ConstNone, "")

	cases := []struct {
		id   NodeID
		want string
	}{
		{attr, "self.name"},
		{call, "x.append(1.0)"},
		{sum, "(a * b) + 2"},
		{str, "'BoB'"},
		{tuple, "(1,)"},
		{dict, "{'k': True}"},
		{cmp, "i not in xs"},
		{neg, "not ok"},
		{sub, "xs[0]"},
		{none, "None"},
		{b.NewSeq(at(1), KindSet, nil), "set()"},
	}
	for _, tc := range cases {
		if got := b.Format(tc.id); got != tc.want {
			t.Fatalf("Format = %q, want %q", got, tc.want)
		}
	}
}

func TestQuotePy(t *testing.T) {
	if got := quotePy(`it's`); got != `"it's"` {
		t.Fatalf("got %s", got)
	}
	if got := quotePy("a\nb"); got != `'a\nb'` {
		t.Fatalf("got %s", got)
	}
}
