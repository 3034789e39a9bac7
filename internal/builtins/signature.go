package builtins

import (
	"slices"
	"sort"
)

// Param describes one positional parameter. A parameter with a Class is
// checked structurally before the receiver; Type then constrains the
// argument itself and Elem its element type.
type Param struct {
	Class TypeClass
	Type  Tmpl
	Elem  Tmpl
}

// P is a parameter of exactly type t.
func P(t Tmpl) Param { return Param{Type: t} }

// Is is a parameter that only has to belong to class c.
func Is(c TypeClass) Param { return Param{Class: c} }

// IterOf is an iterable whose elements have type elem.
func IterOf(elem Tmpl) Param { return Param{Class: ClassIterable, Elem: elem} }

// Signature is the contract of one builtin method or prelude function.
type Signature struct {
	Name    string
	Family  Family // FamilyInvalid for prelude functions
	Params  []Param
	Min     int    // required positional arguments
	Rest    *Param // trailing variadic parameter, if any
	Returns Tmpl
	nvars   int
}

// Arity returns the accepted argument counts; max is -1 when variadic.
func (s *Signature) Arity() (int, int) {
	if s.Rest != nil {
		return s.Min, -1
	}
	return s.Min, len(s.Params)
}

// Param returns the parameter matching the i-th argument.
func (s *Signature) Param(i int) (Param, bool) {
	if i < len(s.Params) {
		return s.Params[i], true
	}
	if s.Rest != nil {
		return *s.Rest, true
	}
	return Param{}, false
}

func (s *Signature) countVars() {
	n := s.Returns.vars()
	for _, p := range s.Params {
		n = max(n, p.Type.vars(), p.Elem.vars())
	}
	if s.Rest != nil {
		n = max(n, s.Rest.Type.vars(), s.Rest.Elem.vars())
	}
	s.nvars = n
}

// Table maps (family, method) and prelude function names to signatures.
type Table struct {
	methods   [familyCount]map[string]*Signature
	functions map[string]*Signature
	owners    map[string][]Family
}

// NewTable returns an empty table.
func NewTable() *Table {
	t := &Table{
		functions: make(map[string]*Signature),
		owners:    make(map[string][]Family),
	}
	for f := range t.methods {
		t.methods[f] = make(map[string]*Signature)
	}
	return t
}

// AddMethod registers sig on its family. Min defaults to len(Params) when
// negative.
func (t *Table) AddMethod(sig Signature) {
	if sig.Min < 0 {
		sig.Min = len(sig.Params)
	}
	sig.countVars()
	t.methods[sig.Family][sig.Name] = &sig
	if !slices.Contains(t.owners[sig.Name], sig.Family) {
		t.owners[sig.Name] = append(t.owners[sig.Name], sig.Family)
		slices.Sort(t.owners[sig.Name])
	}
}

// AddFunction registers a prelude function.
func (t *Table) AddFunction(sig Signature) {
	if sig.Min < 0 {
		sig.Min = len(sig.Params)
	}
	sig.Family = FamilyInvalid
	sig.countVars()
	t.functions[sig.Name] = &sig
}

// Method looks up name on family f, falling back to inherited int methods
// for bool.
func (t *Table) Method(f Family, name string) (*Signature, bool) {
	if f >= familyCount {
		return nil, false
	}
	if sig, ok := t.methods[f][name]; ok {
		return sig, true
	}
	if f == FamilyBool {
		sig, ok := t.methods[FamilyInt][name]
		return sig, ok
	}
	return nil, false
}

// Families lists every family defining name, in table order.
func (t *Table) Families(name string) []Family {
	return t.owners[name]
}

// IsMethod reports whether any family defines name.
func (t *Table) IsMethod(name string) bool {
	return len(t.owners[name]) > 0
}

// Function looks up a prelude function.
func (t *Table) Function(name string) (*Signature, bool) {
	sig, ok := t.functions[name]
	return sig, ok
}

// FunctionNames returns the prelude function names in sorted order.
func (t *Table) FunctionNames() []string {
	names := make([]string, 0, len(t.functions))
	for name := range t.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
