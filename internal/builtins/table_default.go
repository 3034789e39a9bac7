package builtins

import (
	"sync"

	"duckcheck/internal/types"
)

var defaultTable = sync.OnceValue(buildDefault)

// Default returns the shared builtin table. It is read-only after
// construction and safe for concurrent use.
func Default() *Table {
	return defaultTable()
}

func method(f Family, name string, ret Tmpl, params ...Param) Signature {
	return Signature{Name: name, Family: f, Params: params, Min: -1, Returns: ret}
}

func optional(sig Signature, required int) Signature {
	sig.Min = required
	return sig
}

func buildDefault() *Table {
	t := NewTable()
	elem := Recv(0)
	key, val := Recv(0), Recv(1)

	// List[T]
	for _, sig := range []Signature{
		method(FamilyList, "append", tNone, P(elem)),
		method(FamilyList, "extend", tNone, IterOf(elem)),
		method(FamilyList, "insert", tNone, P(tInt), P(elem)),
		method(FamilyList, "remove", tNone, P(elem)),
		optional(method(FamilyList, "pop", elem, P(tInt)), 0),
		method(FamilyList, "index", tInt, P(elem)),
		method(FamilyList, "count", tInt, P(elem)),
		method(FamilyList, "clear", tNone),
		method(FamilyList, "copy", Self()),
		method(FamilyList, "reverse", tNone),
		method(FamilyList, "sort", tNone),
	} {
		t.AddMethod(sig)
	}

	// Tuple[...]
	t.AddMethod(method(FamilyTuple, "count", tInt, P(tAny)))
	t.AddMethod(method(FamilyTuple, "index", tInt, P(tAny)))

	// Dict[K, V]
	for _, sig := range []Signature{
		method(FamilyDict, "keys", listOf(key)),
		method(FamilyDict, "values", listOf(val)),
		method(FamilyDict, "items", listOf(Named(types.NameTuple, key, val))),
		method(FamilyDict, "get", val, P(key)),
		method(FamilyDict, "pop", val, P(key)),
		method(FamilyDict, "setdefault", val, P(key), P(val)),
		method(FamilyDict, "update", tNone, P(Self())),
		method(FamilyDict, "clear", tNone),
		method(FamilyDict, "copy", Self()),
	} {
		t.AddMethod(sig)
	}

	// Set[T]
	for _, sig := range []Signature{
		method(FamilySet, "add", tNone, P(elem)),
		method(FamilySet, "remove", tNone, P(elem)),
		method(FamilySet, "discard", tNone, P(elem)),
		method(FamilySet, "pop", elem),
		method(FamilySet, "union", Self(), IterOf(elem)),
		method(FamilySet, "intersection", Self(), IterOf(elem)),
		method(FamilySet, "difference", Self(), IterOf(elem)),
		method(FamilySet, "update", tNone, IterOf(elem)),
		method(FamilySet, "clear", tNone),
		method(FamilySet, "copy", Self()),
	} {
		t.AddMethod(sig)
	}

	// str
	for _, name := range []string{"upper", "lower", "strip", "lstrip", "rstrip", "title", "capitalize", "swapcase"} {
		t.AddMethod(method(FamilyStr, name, tStr))
	}
	for _, name := range []string{"isdigit", "isalpha", "isalnum", "isspace", "isupper", "islower"} {
		t.AddMethod(method(FamilyStr, name, tBool))
	}
	for _, sig := range []Signature{
		optional(method(FamilyStr, "split", listOf(tStr), P(tStr)), 0),
		method(FamilyStr, "join", tStr, IterOf(tStr)),
		method(FamilyStr, "replace", tStr, P(tStr), P(tStr)),
		method(FamilyStr, "startswith", tBool, P(tStr)),
		method(FamilyStr, "endswith", tBool, P(tStr)),
		method(FamilyStr, "find", tInt, P(tStr)),
		method(FamilyStr, "index", tInt, P(tStr)),
		method(FamilyStr, "count", tInt, P(tStr)),
	} {
		t.AddMethod(sig)
	}

	// numbers
	t.AddMethod(method(FamilyInt, "bit_length", tInt))
	t.AddMethod(method(FamilyInt, "conjugate", Self()))
	t.AddMethod(method(FamilyFloat, "is_integer", tBool))
	t.AddMethod(method(FamilyFloat, "conjugate", Self()))

	// prelude functions
	anyRest := P(tAny)
	for _, sig := range []Signature{
		{Name: "len", Params: []Param{Is(ClassIterable)}, Min: 1, Returns: tInt},
		{Name: "print", Min: 0, Rest: &anyRest, Returns: tNone},
		{Name: "str", Params: []Param{P(tAny)}, Min: 0, Returns: tStr},
		{Name: "int", Params: []Param{P(tAny)}, Min: 0, Returns: tInt},
		{Name: "float", Params: []Param{P(tAny)}, Min: 0, Returns: tFloat},
		{Name: "bool", Params: []Param{P(tAny)}, Min: 0, Returns: tBool},
		{Name: "list", Params: []Param{IterOf(Var(0))}, Min: 0, Returns: listOf(Var(0))},
		{Name: "range", Params: []Param{P(tInt), P(tInt), P(tInt)}, Min: 1, Returns: listOf(tInt)},
		{Name: "isinstance", Params: []Param{P(tAny), P(tAny)}, Min: 2, Returns: tBool},
		{Name: "abs", Params: []Param{{Class: ClassNumber, Type: Var(0)}}, Min: 1, Returns: Var(0)},
		{Name: "sorted", Params: []Param{IterOf(Var(0))}, Min: 1, Returns: listOf(Var(0))},
		{Name: "sum", Params: []Param{IterOf(Var(0))}, Min: 1, Returns: Var(0)},
		{Name: "max", Params: []Param{IterOf(Var(0))}, Min: 1, Returns: Var(0)},
		{Name: "min", Params: []Param{IterOf(Var(0))}, Min: 1, Returns: Var(0)},
	} {
		t.AddFunction(sig)
	}
	return t
}
