package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckcheck/internal/solver"
	"duckcheck/internal/types"
)

func call(line uint32, name string, recv types.TypeID, args ...types.TypeID) Call {
	return Call{Site: types.Site{Kind: "Call", Line: line}, Name: name, Receiver: recv, Args: args}
}

func failMessage(t *testing.T, s *solver.Store, id types.TypeID) string {
	t.Helper()
	info, ok := s.FailInfo(id)
	require.True(t, ok, "expected a failure, got %s", s.Render(id))
	return info.Message
}

func TestSelfTypeMismatchOnScalar(t *testing.T) {
	s := solver.NewStore()
	b := s.Types().Builtins()
	res := Default().CheckMethod(s, call(2, "append", b.Int, b.Float))
	assert.Equal(t,
		"In the Call node in line 2, when calling the method \"append\":\n"+
			"this function expects to be called on an object of the class List, but was called on an object of inferred type int.",
		failMessage(t, s, res))
}

func TestArgumentClassCheckedBeforeReceiver(t *testing.T) {
	s := solver.NewStore()
	b := s.Types().Builtins()
	res := Default().CheckMethod(s, call(2, "extend", b.Int, b.Int))
	assert.Equal(t,
		"In the Call node in line 2, when calling the method \"extend\":\n"+
			"in parameter (1), the function was expecting an object of type iterable but was given an object of type int.",
		failMessage(t, s, res))
	info, _ := s.FailInfo(res)
	assert.Equal(t, types.FailArgumentType, info.Kind)
}

func TestListAppendBindsElement(t *testing.T) {
	s := solver.NewStore()
	in := s.Types()
	b := in.Builtins()
	list := Generic(s, FamilyList)
	res := Default().CheckMethod(s, call(1, "append", list, b.Str))
	assert.Equal(t, b.None, s.Shallow(res))
	got, ok := s.LookupConcrete(list)
	require.True(t, ok)
	assert.Equal(t, "List[str]", s.Render(got))

	bad := Default().CheckMethod(s, call(3, "append", list, b.Int))
	assert.Equal(t,
		"In the Call node in line 3, when calling the method \"append\":\n"+
			"in parameter (1), the function was expecting an object of type str but was given an object of type int.",
		failMessage(t, s, bad))
	got, _ = s.LookupConcrete(list)
	assert.Equal(t, "List[str]", s.Render(got), "failed argument must not poison the receiver")
}

func TestExtendUnifiesElements(t *testing.T) {
	s := solver.NewStore()
	in := s.Types()
	b := in.Builtins()
	list := Generic(s, FamilyList)
	res := Default().CheckMethod(s, call(1, "extend", list, in.Concrete(types.NameList, b.Int)))
	assert.False(t, s.IsFail(res))
	got, _ := s.LookupConcrete(list)
	assert.Equal(t, "List[int]", s.Render(got))

	bad := Default().CheckMethod(s, call(2, "extend", list, b.Str))
	assert.Contains(t, failMessage(t, s, bad), "Iterable[int]")
}

func TestUnknownMethod(t *testing.T) {
	s := solver.NewStore()
	b := s.Types().Builtins()
	res := Default().CheckMethod(s, call(4, "frobnicate", b.Str))
	info, ok := s.FailInfo(res)
	require.True(t, ok)
	assert.Equal(t, types.FailUnknownMethod, info.Kind)
	assert.Equal(t,
		"In the Call node in line 4, when calling the method \"frobnicate\":\n"+
			"the method \"frobnicate\" is not defined for objects of type str.",
		info.Message)
}

func TestReceiverInferenceFromUniqueMethod(t *testing.T) {
	s := solver.NewStore()
	b := s.Types().Builtins()
	v := s.Fresh()
	res := Default().CheckMethod(s, call(1, "append", v, b.Int))
	assert.False(t, s.IsFail(res))
	got, ok := s.LookupConcrete(v)
	require.True(t, ok)
	assert.Equal(t, "List[int]", s.Render(got))

	w := s.Fresh()
	amb := Default().CheckMethod(s, call(1, "count", w, b.Int))
	assert.True(t, s.IsFree(amb))
	assert.True(t, s.IsFree(w), "ambiguous method must leave the receiver free")
}

func TestBoolInheritsIntMethods(t *testing.T) {
	s := solver.NewStore()
	b := s.Types().Builtins()
	res := Default().CheckMethod(s, call(1, "bit_length", b.Bool))
	assert.Equal(t, b.Int, s.Shallow(res))
}

func TestFailurePropagatesWithoutNewMessage(t *testing.T) {
	s := solver.NewStore()
	b := s.Types().Builtins()
	prior := s.Fail(types.FailUnification, types.Site{Line: 1}, "prior")
	res := Default().CheckMethod(s, call(2, "append", prior, b.Int))
	assert.Equal(t, prior, res)
}

func TestArity(t *testing.T) {
	s := solver.NewStore()
	in := s.Types()
	b := in.Builtins()
	list := in.Concrete(types.NameList, b.Int)
	res := Default().CheckMethod(s, call(1, "insert", list, b.Int))
	assert.Contains(t, failMessage(t, s, res), "takes 2 argument(s) but 1 were given")

	popped := Default().CheckMethod(s, call(1, "pop", list))
	assert.Equal(t, b.Int, s.Shallow(popped))
}

func TestPreludeFunctions(t *testing.T) {
	s := solver.NewStore()
	in := s.Types()
	b := in.Builtins()
	table := Default()

	sig, ok := table.Function("len")
	require.True(t, ok)
	assert.Equal(t, b.Int, s.Shallow(table.CheckFunction(s, sig, call(1, "len", types.NoTypeID, b.Str))))
	assert.Contains(t, failMessage(t, s, table.CheckFunction(s, sig, call(2, "len", types.NoTypeID, b.Int))),
		"expecting an object of type iterable")

	sig, _ = table.Function("sorted")
	res := table.CheckFunction(s, sig, call(3, "sorted", types.NoTypeID, in.Concrete(types.NameSet, b.Float)))
	assert.Equal(t, "List[float]", s.Render(res))

	sig, _ = table.Function("abs")
	assert.Equal(t, b.Float, s.Shallow(table.CheckFunction(s, sig, call(4, "abs", types.NoTypeID, b.Float))))

	sig, _ = table.Function("print")
	assert.Equal(t, b.None, s.Shallow(table.CheckFunction(s, sig, call(5, "print", types.NoTypeID, b.Int, b.Str, b.Bool))))

	sig, _ = table.Function("range")
	assert.Equal(t, "List[int]", s.Render(table.CheckFunction(s, sig, call(6, "range", types.NoTypeID, b.Bool, b.Int))))

	assert.Equal(t, []string{"abs", "bool", "float", "int", "isinstance", "len", "list", "max", "min", "print", "range", "sorted", "str", "sum"},
		table.FunctionNames())
}

func TestTypeClasses(t *testing.T) {
	assert.True(t, ClassIterable.Admits(FamilyDict))
	assert.False(t, ClassIterable.Admits(FamilyInt))
	assert.True(t, ClassSequence.Admits(FamilyStr))
	assert.False(t, ClassSequence.Admits(FamilySet))
	assert.True(t, ClassNumber.Admits(FamilyBool))
	assert.False(t, ClassHashable.Admits(FamilyList))
	assert.Equal(t, []Family{FamilyList, FamilyTuple, FamilyStr}, Default().Families("count"))
}
