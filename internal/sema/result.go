package sema

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/solver"
	"duckcheck/internal/symbols"
	"duckcheck/internal/types"
)

// ClassInfo is what the checker knows about one user class.
type ClassInfo struct {
	Name     string
	Node     ast.NodeID
	Scope    symbols.ScopeID
	Instance types.TypeID // ForwardRef(Name)
	Object   types.TypeID // Type[ForwardRef(Name)]
	Bases    []*ClassInfo
	// Attrs lists every assignment site of each instance attribute, in
	// source order; AttrNames keeps the names in first-seen order.
	Attrs     map[string][]AttrSite
	AttrNames []string
	// Done is set once the class body has been visited. Until then a
	// missing member may still be defined later and lookups are deferred.
	Done bool
}

// AttrSite is one `obj.attr = value` assignment.
type AttrSite struct {
	Node  ast.NodeID // the Attribute target
	Value ast.NodeID // the assigned expression, NoNodeID for augmented or loop targets
	Scope symbols.ScopeID
}

// Failure is a TypeFail reported at the node it originated from.
type Failure struct {
	Node ast.NodeID
	Type types.TypeID
	Info types.FailInfo
}

// Result holds the annotations of one inference run. All TypeIDs belong to
// Store.
type Result struct {
	Builder *ast.Builder
	Root    ast.NodeID
	Store   *solver.Store
	Table   *symbols.Table
	Prelude symbols.ScopeID
	Module  symbols.ScopeID
	// Classes in definition order.
	Classes  []*ClassInfo
	Failures []Failure

	slots   []types.TypeID
	scopes  map[ast.NodeID]symbols.ScopeID
	classOf map[ast.NodeID]*ClassInfo
}

func newResult(b *ast.Builder, root ast.NodeID, store *solver.Store, table *symbols.Table) *Result {
	n := 1
	if b != nil {
		n = int(b.Len()) + 1
	}
	return &Result{
		Builder: b,
		Root:    root,
		Store:   store,
		Table:   table,
		slots:   make([]types.TypeID, n),
		scopes:  make(map[ast.NodeID]symbols.ScopeID),
		classOf: make(map[ast.NodeID]*ClassInfo),
	}
}

// NodeType returns the raw slot of id: a type variable or a type.
func (r *Result) NodeType(id ast.NodeID) types.TypeID {
	if int(id) >= len(r.slots) {
		return types.NoTypeID
	}
	return r.slots[id]
}

// Resolved returns the slot of id with every bound variable substituted.
// A still-free slot resolves to its class root.
func (r *Result) Resolved(id ast.NodeID) types.TypeID {
	t := r.NodeType(id)
	if !t.IsValid() {
		return t
	}
	return r.Store.Resolve(t)
}

// TypeString renders the resolved type of id, "" for nodes without a slot.
func (r *Result) TypeString(id ast.NodeID) string {
	t := r.NodeType(id)
	if !t.IsValid() {
		return ""
	}
	return r.Store.Render(t)
}

// FailMessage returns the TypeFail message carried by id's slot.
func (r *Result) FailMessage(id ast.NodeID) (string, bool) {
	t := r.NodeType(id)
	if !t.IsValid() {
		return "", false
	}
	info, ok := r.Store.FailInfo(t)
	if !ok {
		return "", false
	}
	return info.Message, true
}

// ScopeOf returns the scope created for a Module, ClassDef or FunctionDef.
func (r *Result) ScopeOf(id ast.NodeID) (symbols.ScopeID, bool) {
	s, ok := r.scopes[id]
	return s, ok
}

// LookupConcrete resolves name as seen from scope. ok is false when the
// name is unbound or its type is still a free variable.
func (r *Result) LookupConcrete(scope symbols.ScopeID, name string) (types.TypeID, bool) {
	t, err := r.Table.TypeOf(scope, name)
	if err != nil {
		return types.NoTypeID, false
	}
	return r.Store.LookupConcrete(t)
}

// Class returns the class declared by a ClassDef node.
func (r *Result) Class(id ast.NodeID) (*ClassInfo, bool) {
	c, ok := r.classOf[id]
	return c, ok
}

// Note annotates dump output with each node's type.
func (r *Result) Note(id ast.NodeID) string {
	return r.TypeString(id)
}
