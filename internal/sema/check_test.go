package sema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"duckcheck/internal/ast"
	"duckcheck/internal/diag"
	"duckcheck/internal/symbols"
	"duckcheck/internal/testkit"
	"duckcheck/internal/types"
)

func check(t *testing.T, tr *testkit.Tree, root ast.NodeID) (*Result, *diag.Bag) {
	t.Helper()
	return checkWith(t, tr, root, Options{})
}

func checkWith(t *testing.T, tr *testkit.Tree, root ast.NodeID, opts Options) (*Result, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(32)
	opts.Reporter = &diag.BagReporter{Bag: bag}
	res := Check(context.Background(), tr.B, root, opts)
	require.NoError(t, testkit.CheckAnnotated(tr.B, root, res.NodeType))
	return res, bag
}

func messages(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Message)
	}
	return out
}

// class Person:
//
//	def __init__(self, name, age):
//	    self.name = name
//	    self.age = age
//	def get_name(self):
//	    return self.name
func personClass(tr *testkit.Tree) (cls, getName ast.NodeID) {
	init := tr.Def(2, "__init__", tr.Params(2, "self", "name", "age"),
		tr.Assign(3, tr.Self(3, "name"), tr.Name(3, "name")),
		tr.Assign(4, tr.Self(4, "age"), tr.Name(4, "age")),
	)
	getName = tr.Def(5, "get_name", tr.Params(5, "self"),
		tr.Return(6, tr.Self(6, "name")),
	)
	return tr.Class(1, "Person", nil, init, getName), getName
}

func TestInstanceAttributesAgreeWithAssignedValues(t *testing.T) {
	tr := testkit.NewTree()
	cls, _ := personClass(tr)
	root := tr.Module(cls,
		tr.Assign(7, tr.Name(7, "rogers"),
			tr.Call(7, tr.Name(7, "Person"), tr.Str(7, "Rogers"), tr.Int(7, 40))),
		tr.Assign(8, tr.Attr(8, tr.Name(8, "rogers"), "name"), tr.Str(8, "BoB")),
	)
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	info, ok := res.Class(cls)
	require.True(t, ok)
	require.Equal(t, []string{"name", "age"}, info.AttrNames)
	require.Len(t, info.Attrs["name"], 2)

	for _, name := range info.AttrNames {
		attr, err := res.Table.TypeOf(info.Scope, name)
		require.NoError(t, err)
		want, ok := res.Store.LookupConcrete(attr)
		require.True(t, ok, name)
		for _, site := range info.Attrs[name] {
			got, ok := res.Store.LookupConcrete(res.NodeType(site.Value))
			require.True(t, ok, name)
			require.Equal(t, want, got, name)
		}
	}

	b := res.Store.Types().Builtins()
	name, _ := res.Table.TypeOf(info.Scope, "name")
	age, _ := res.Table.TypeOf(info.Scope, "age")
	require.Equal(t, b.Str, res.Store.Resolve(name))
	require.Equal(t, b.Int, res.Store.Resolve(age))

	rogers, ok := res.LookupConcrete(res.Module, "rogers")
	require.True(t, ok)
	require.Equal(t, "Person", res.Store.Render(rogers))
}

func TestAnnotatedParametersResolveToTheirAnnotation(t *testing.T) {
	tr := testkit.NewTree()
	params := []ast.NodeID{
		tr.Param(2, "self", ast.NoNodeID, ast.NoNodeID),
		tr.Param(2, "x", tr.Name(2, "int"), ast.NoNodeID),
		tr.Param(2, "ys", tr.Sub(2, tr.Name(2, "List"), tr.Name(2, "str")), ast.NoNodeID),
	}
	fn := tr.DefRet(2, "f", params, tr.Name(2, "int"),
		tr.Return(3, tr.Name(3, "x")),
	)
	root := tr.Module(tr.Class(1, "A", nil, fn))
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	scope, ok := res.ScopeOf(fn)
	require.True(t, ok)
	in := res.Store.Types()

	x, ok := res.LookupConcrete(scope, "x")
	require.True(t, ok)
	require.Equal(t, in.Builtins().Int, x)

	ys, ok := res.LookupConcrete(scope, "ys")
	require.True(t, ok)
	require.Equal(t, in.Concrete(types.NameList, in.Builtins().Str), ys)

	self, ok := res.LookupConcrete(scope, "self")
	require.True(t, ok)
	require.Equal(t, in.Forward("A"), self)

	require.Equal(t, "Callable[[A, int, List[str]], int]", res.TypeString(fn))
}

func TestMethodReturningAttributeSharesItsType(t *testing.T) {
	tr := testkit.NewTree()
	cls, getName := personClass(tr)
	root := tr.Module(cls)
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	info, _ := res.Class(cls)
	attr, err := res.Table.TypeOf(info.Scope, "name")
	require.NoError(t, err)

	method := res.Resolved(getName)
	args := res.Store.Args(method)
	require.Len(t, args, 2)
	require.Equal(t, res.Store.Resolve(attr), res.Store.Resolve(args[len(args)-1]))
}

func TestMethodReturningAttributeAfterInstantiation(t *testing.T) {
	tr := testkit.NewTree()
	cls, getName := personClass(tr)
	callee := tr.Attr(8, tr.Name(8, "p"), "get_name")
	call := tr.Call(8, callee)
	root := tr.Module(cls,
		tr.Assign(7, tr.Name(7, "p"), tr.Call(7, tr.Name(7, "Person"), tr.Str(7, "a"), tr.Int(7, 1))),
		tr.Assign(8, tr.Name(8, "n"), call),
	)
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	require.Equal(t, "Callable[[Person], str]", res.TypeString(getName))
	require.Equal(t, "str", res.TypeString(call))
	require.Equal(t, "Callable[[], str]", res.TypeString(callee))
}

func TestUnknownAttributeOnInt(t *testing.T) {
	tr := testkit.NewTree()
	attr := tr.Attr(2, tr.Name(2, "x"), "wrong_name")
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "x"), tr.Int(1, 1)),
		tr.Expr(2, attr),
	)
	res, bag := check(t, tr, root)

	msg, ok := res.FailMessage(attr)
	require.True(t, ok)
	require.Equal(t, "Attribute access error!\nIn the Attribute node in line 2:\n"+
		"the object \"x\" does not have the attribute \"wrong_name\".", msg)

	items := bag.Items()
	require.Len(t, items, 1)
	require.Equal(t, diag.SemaAttributeAccess, items[0].Code)
	require.Equal(t, uint32(2), items[0].Primary.Line)
}

func TestListMethodOnIntReceiver(t *testing.T) {
	tr := testkit.NewTree()
	call := tr.Method(2, tr.Name(2, "x"), "append", tr.Float(2, "1.0"))
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "x"), tr.Int(1, 1)),
		tr.Expr(2, call),
	)
	res, bag := check(t, tr, root)

	msg, ok := res.FailMessage(call)
	require.True(t, ok)
	require.Equal(t, "In the Call node in line 2, when calling the method \"append\":\n"+
		"this function expects to be called on an object of the class List, "+
		"but was called on an object of inferred type int.", msg)
	require.Len(t, bag.Items(), 1)
	require.Equal(t, diag.SemaSelfTypeMismatch, bag.Items()[0].Code)
}

func TestExtendWithNonIterable(t *testing.T) {
	tr := testkit.NewTree()
	call := tr.Method(2, tr.Name(2, "x"), "extend", tr.Int(2, 1))
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "x"), tr.Int(1, 1)),
		tr.Expr(2, call),
	)
	res, bag := check(t, tr, root)

	msg, ok := res.FailMessage(call)
	require.True(t, ok)
	require.Equal(t, "In the Call node in line 2, when calling the method \"extend\":\n"+
		"in parameter (1), the function was expecting an object of type iterable "+
		"but was given an object of type int.", msg)
	require.Equal(t, diag.SemaArgumentTypeMismatch, bag.Items()[0].Code)
}

func TestUnknownBuiltinMethod(t *testing.T) {
	tr := testkit.NewTree()
	call := tr.Method(2, tr.Name(2, "xs"), "frobnicate")
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "xs"), tr.List(1, tr.Int(1, 1))),
		tr.Expr(2, call),
	)
	res, bag := check(t, tr, root)

	msg, ok := res.FailMessage(call)
	require.True(t, ok)
	require.Equal(t, "In the Call node in line 2, when calling the method \"frobnicate\":\n"+
		"the method \"frobnicate\" is not defined for objects of type List[int].", msg)
	require.Equal(t, diag.SemaUnknownBuiltinMethod, bag.Items()[0].Code)
}

func TestReinferenceIsIdempotent(t *testing.T) {
	tr := testkit.NewTree()
	cls, _ := personClass(tr)
	root := tr.Module(cls,
		tr.Assign(7, tr.Name(7, "p"), tr.Call(7, tr.Name(7, "Person"), tr.Str(7, "a"), tr.Int(7, 1))),
		tr.Assign(8, tr.Name(8, "xs"), tr.List(8, tr.Int(8, 1), tr.Int(8, 2))),
		tr.Expr(9, tr.Method(9, tr.Name(9, "xs"), "append", tr.Int(9, 3))),
		tr.Assign(10, tr.Name(10, "n"), tr.Method(10, tr.Name(10, "p"), "get_name")),
	)
	first, bag := check(t, tr, root)
	require.Empty(t, messages(bag))
	second, _ := check(t, tr, root)

	tr.B.Walk(root, func(id ast.NodeID, _ int) bool {
		require.Equal(t, first.TypeString(id), second.TypeString(id), "node %d", id)
		return true
	})
}

func TestUnboundNameAtModuleLevel(t *testing.T) {
	tr := testkit.NewTree()
	name := tr.Name(1, "missing")
	call := tr.Call(1, tr.Name(1, "print"), name)
	root := tr.Module(tr.Expr(1, call))
	res, bag := check(t, tr, root)

	want := "Name resolution error!\nIn the Name node in line 1:\nthe name \"missing\" is not defined."
	msg, ok := res.FailMessage(name)
	require.True(t, ok)
	require.Equal(t, want, msg)
	// the failure propagates to the call but is reported once
	require.Equal(t, []string{want}, messages(bag))
	require.Equal(t, diag.SemaUnboundName, bag.Items()[0].Code)
	require.Len(t, res.Failures, 1)
	require.Equal(t, name, res.Failures[0].Node)
}

func TestNamesInFunctionsResolveAfterTheModule(t *testing.T) {
	tr := testkit.NewTree()
	f := tr.Def(1, "f", nil,
		tr.Return(2, tr.Bin(2, tr.Name(2, "limit"), ast.OpAdd, tr.Int(2, 1))),
	)
	h := tr.Def(5, "h", nil, tr.Return(6, tr.Name(6, "nope")))
	root := tr.Module(f,
		tr.Assign(3, tr.Name(3, "limit"), tr.Int(3, 10)),
		tr.Assign(4, tr.Name(4, "y"), tr.Call(4, tr.Name(4, "f"))),
		h,
	)
	res, bag := check(t, tr, root)

	y, ok := res.LookupConcrete(res.Module, "y")
	require.True(t, ok)
	require.Equal(t, res.Store.Types().Builtins().Int, y)
	require.Equal(t, []string{
		"Name resolution error!\nIn the Name node in line 6:\nthe name \"nope\" is not defined.",
	}, messages(bag))
}

func TestReassignmentPolicy(t *testing.T) {
	build := func() (*testkit.Tree, ast.NodeID) {
		tr := testkit.NewTree()
		return tr, tr.Module(
			tr.Assign(1, tr.Name(1, "x"), tr.Int(1, 1)),
			tr.Assign(2, tr.Name(2, "x"), tr.Str(2, "a")),
		)
	}

	tr, root := build()
	_, bag := check(t, tr, root)
	require.Equal(t, []string{
		"In the Assign node in line 2:\nexpected an object of type int, but the inferred type is str.",
	}, messages(bag))
	require.Equal(t, diag.SemaUnificationConflict, bag.Items()[0].Code)

	tr, root = build()
	res, bag := checkWith(t, tr, root, Options{Policy: symbols.ReassignRebind})
	require.Empty(t, messages(bag))
	x, ok := res.LookupConcrete(res.Module, "x")
	require.True(t, ok)
	require.Equal(t, res.Store.Types().Builtins().Str, x)
}

func TestUserFunctionCalls(t *testing.T) {
	tr := testkit.NewTree()
	params := []ast.NodeID{
		tr.Param(1, "a", tr.Name(1, "int"), ast.NoNodeID),
		tr.Param(1, "b", tr.Name(1, "int"), tr.Int(1, 0)),
	}
	add := tr.DefRet(1, "add", params, tr.Name(1, "int"),
		tr.Return(2, tr.Bin(2, tr.Name(2, "a"), ast.OpAdd, tr.Name(2, "b"))),
	)
	half := tr.DefRet(3, "half", []ast.NodeID{tr.Param(3, "x", tr.Name(3, "float"), ast.NoNodeID)}, tr.Name(3, "float"),
		tr.Return(4, tr.Bin(4, tr.Name(4, "x"), ast.OpDiv, tr.Int(4, 2))),
	)
	root := tr.Module(add, half,
		tr.Assign(5, tr.Name(5, "ok"), tr.Call(5, tr.Name(5, "add"), tr.Int(5, 1))),
		tr.Expr(6, tr.Call(6, tr.Name(6, "add"), tr.Int(6, 1), tr.Str(6, "two"))),
		tr.Expr(7, tr.Call(7, tr.Name(7, "add"), tr.Int(7, 1), tr.Int(7, 2), tr.Int(7, 3))),
		tr.Assign(8, tr.Name(8, "h"), tr.Call(8, tr.Name(8, "half"), tr.Int(8, 3))),
	)
	res, bag := check(t, tr, root)

	require.Equal(t, []string{
		"In the Call node in line 6, when calling the method \"add\":\n" +
			"in parameter (2), the function was expecting an object of type int but was given an object of type str.",
		"In the Call node in line 7, when calling the method \"add\":\n" +
			"the function takes 2 argument(s) but 3 were given.",
	}, messages(bag))

	b := res.Store.Types().Builtins()
	got, ok := res.LookupConcrete(res.Module, "ok")
	require.True(t, ok)
	require.Equal(t, b.Int, got)
	got, ok = res.LookupConcrete(res.Module, "h")
	require.True(t, ok)
	require.Equal(t, b.Float, got)
}

func TestReceiverInferenceFromBuiltinMethod(t *testing.T) {
	tr := testkit.NewTree()
	push := tr.Def(1, "push", tr.Params(1, "items", "x"),
		tr.Expr(2, tr.Method(2, tr.Name(2, "items"), "append", tr.Name(2, "x"))),
		tr.Return(3, tr.Name(3, "items")),
	)
	root := tr.Module(push,
		tr.Assign(4, tr.Name(4, "r"), tr.Call(4, tr.Name(4, "push"), tr.List(4, tr.Int(4, 1)), tr.Int(4, 2))),
	)
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	r, ok := res.LookupConcrete(res.Module, "r")
	require.True(t, ok)
	require.Equal(t, "List[int]", res.Store.Render(r))
}

func TestInstantiationAndInheritance(t *testing.T) {
	tr := testkit.NewTree()
	cls, _ := personClass(tr)
	hello := tr.Def(11, "hello", tr.Params(11, "self"), tr.Return(12, tr.Str(12, "hi")))
	base := tr.Class(10, "Base", nil, hello)
	child := tr.Class(13, "Child", []ast.NodeID{tr.Name(13, "Base")}, tr.Pass(14))
	missing := tr.Attr(17, tr.Name(17, "p"), "height")
	root := tr.Module(cls, base, child,
		tr.Assign(15, tr.Name(15, "c"), tr.Call(15, tr.Name(15, "Child"))),
		tr.Assign(16, tr.Name(16, "h"), tr.Method(16, tr.Name(16, "c"), "hello")),
		tr.Assign(17, tr.Name(17, "p"), tr.Call(17, tr.Name(17, "Person"), tr.Str(17, "a"))),
		tr.Expr(18, missing),
	)
	res, bag := check(t, tr, root)

	h, ok := res.LookupConcrete(res.Module, "h")
	require.True(t, ok)
	require.Equal(t, res.Store.Types().Builtins().Str, h)
	require.Equal(t, []string{
		"In the Call node in line 17, when calling the method \"__init__\":\n" +
			"the function takes 2 argument(s) but 1 were given.",
	}, messages(bag))

	// p is poisoned by the failed call, so the attribute read propagates
	// the call failure instead of reporting a new one
	msg, ok := res.FailMessage(missing)
	require.True(t, ok)
	require.Contains(t, msg, "__init__")
}

func TestMissingInstanceAttribute(t *testing.T) {
	tr := testkit.NewTree()
	cls, _ := personClass(tr)
	missing := tr.Attr(8, tr.Name(8, "p"), "height")
	root := tr.Module(cls,
		tr.Assign(7, tr.Name(7, "p"), tr.Call(7, tr.Name(7, "Person"), tr.Str(7, "a"), tr.Int(7, 3))),
		tr.Expr(8, missing),
	)
	_, bag := check(t, tr, root)
	require.Equal(t, []string{
		"Attribute access error!\nIn the Attribute node in line 8:\nthe object \"p\" does not have the attribute \"height\".",
	}, messages(bag))
}

func TestMembersUsedBeforeTheirDefinition(t *testing.T) {
	tr := testkit.NewTree()
	show := tr.Def(2, "show", tr.Params(2, "self"),
		tr.Return(3, tr.Method(3, tr.Name(3, "self"), "label_of", tr.Self(3, "label"))),
	)
	labelOf := tr.Def(4, "label_of", tr.Params(4, "self", "s"),
		tr.Return(5, tr.Name(5, "s")),
	)
	set := tr.Def(6, "set", tr.Params(6, "self"),
		tr.Assign(7, tr.Self(7, "label"), tr.Str(7, "x")),
	)
	cls := tr.Class(1, "Widget", nil, show, labelOf, set)
	root := tr.Module(cls,
		tr.Assign(8, tr.Name(8, "w"), tr.Call(8, tr.Name(8, "Widget"))),
		tr.Assign(9, tr.Name(9, "s"), tr.Method(9, tr.Name(9, "w"), "show")),
	)
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	s, ok := res.LookupConcrete(res.Module, "s")
	require.True(t, ok)
	require.Equal(t, res.Store.Types().Builtins().Str, s)
}

func TestContainersLoopsAndSubscripts(t *testing.T) {
	tr := testkit.NewTree()
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "d"), tr.Dict(1, []ast.NodeID{tr.Str(1, "a")}, []ast.NodeID{tr.Int(1, 1)})),
		tr.Assign(2, tr.Name(2, "v"), tr.Sub(2, tr.Name(2, "d"), tr.Str(2, "a"))),
		tr.Assign(3, tr.Name(3, "t"), tr.Tuple(3, tr.Int(3, 1), tr.Str(3, "x"))),
		tr.Assign(4, tr.Name(4, "s"), tr.Sub(4, tr.Name(4, "t"), tr.Int(4, 1))),
		tr.For(5, tr.Name(5, "ch"), tr.Str(5, "abc"),
			tr.Assign(6, tr.Name(6, "last"), tr.Name(6, "ch")),
		),
		tr.Assign(7, tr.Name(7, "mixed"), tr.List(7, tr.Int(7, 1), tr.Float(7, "2.5"))),
		tr.Assign(8, tr.Name(8, "flag"), tr.Cmp(8, tr.Name(8, "v"), ast.CmpLt, tr.Int(8, 3))),
		tr.AugAssign(9, tr.Name(9, "v"), ast.OpAdd, tr.Int(9, 1)),
	)
	res, bag := check(t, tr, root)
	require.Empty(t, messages(bag))

	for name, want := range map[string]string{
		"v":     "int",
		"s":     "str",
		"last":  "str",
		"mixed": "List[float]",
		"flag":  "bool",
		"d":     "Dict[str, int]",
		"t":     "Tuple[int, str]",
	} {
		got, ok := res.LookupConcrete(res.Module, name)
		require.True(t, ok, name)
		require.Equal(t, want, res.Store.Render(got), name)
	}
}

func TestBinaryOperandConflict(t *testing.T) {
	tr := testkit.NewTree()
	bin := tr.Bin(1, tr.Int(1, 1), ast.OpAdd, tr.Str(1, "a"))
	root := tr.Module(tr.Assign(1, tr.Name(1, "z"), bin))
	res, bag := check(t, tr, root)

	msg, ok := res.FailMessage(bin)
	require.True(t, ok)
	require.Equal(t, "In the BinOp node in line 1:\nexpected an object of type int, but the inferred type is str.", msg)
	require.Len(t, bag.Items(), 1)
}

func TestCheckRejectsMissingInput(t *testing.T) {
	res := Check(context.Background(), nil, ast.NoNodeID, Options{})
	require.NotNil(t, res)
	require.Empty(t, res.Failures)

	tr := testkit.NewTree()
	name := tr.Name(1, "x")
	res = Check(context.Background(), tr.B, name, Options{})
	require.False(t, res.NodeType(name).IsValid())
}

func TestLaterAttributeSiteReportsTheConflict(t *testing.T) {
	tr := testkit.NewTree()
	later := tr.Assign(5, tr.Self(5, "x"), tr.Str(5, "a"))
	cls := tr.Class(1, "C", nil,
		tr.Def(2, "__init__", tr.Params(2, "self"),
			tr.Assign(3, tr.Self(3, "x"), tr.Int(3, 1)),
		),
		tr.Def(4, "set", tr.Params(4, "self"), later),
	)
	res, bag := check(t, tr, tr.Module(cls))

	require.Equal(t, []string{
		"In the Assign node in line 5:\nexpected an object of type int, but the inferred type is str.",
	}, messages(bag))
	require.Equal(t, diag.SemaUnificationConflict, bag.Items()[0].Code)
	require.Equal(t, uint32(5), bag.Items()[0].Primary.Line)
	require.Len(t, res.Failures, 1)
	require.Equal(t, later, res.Failures[0].Node)
}

func TestOutOfPlaceNodesDoNotStopInference(t *testing.T) {
	tr := testkit.NewTree()
	fn := tr.Def(1, "f", []ast.NodeID{tr.Name(1, "a")},
		tr.Return(2, tr.Int(2, 1)),
	)
	stray := tr.Param(3, "b", ast.NoNodeID, ast.NoNodeID)
	root := tr.Module(fn, stray,
		tr.Assign(4, tr.Name(4, "y"), tr.Call(4, tr.Name(4, "f"), tr.Int(4, 0))),
	)
	res, bag := check(t, tr, root)

	require.Empty(t, messages(bag))
	require.Equal(t, res.Store.Types().Builtins().None, res.NodeType(stray))
	y, ok := res.LookupConcrete(res.Module, "y")
	require.True(t, ok)
	require.Equal(t, res.Store.Types().Builtins().Int, y)
}

func TestSameNamedClassesShareOneDefinition(t *testing.T) {
	tr := testkit.NewTree()
	inner := tr.Def(1, "f", nil,
		tr.Class(2, "A", nil,
			tr.Def(3, "__init__", tr.Params(3, "self"),
				tr.Assign(4, tr.Self(4, "x"), tr.Int(4, 1)),
			),
		),
	)
	outer := tr.Class(5, "A", nil,
		tr.Def(6, "__init__", tr.Params(6, "self"),
			tr.Assign(7, tr.Self(7, "y"), tr.Str(7, "s")),
		),
	)
	root := tr.Module(inner, outer,
		tr.Assign(8, tr.Name(8, "a"), tr.Call(8, tr.Name(8, "A"))),
		tr.Assign(9, tr.Name(9, "v"), tr.Attr(9, tr.Name(9, "a"), "x")),
	)
	res, bag := check(t, tr, root)

	require.Empty(t, messages(bag))
	require.Len(t, res.Classes, 1)
	require.Equal(t, []string{"x", "y"}, res.Classes[0].AttrNames)
	v, ok := res.LookupConcrete(res.Module, "v")
	require.True(t, ok)
	require.Equal(t, res.Store.Types().Builtins().Int, v)
}
