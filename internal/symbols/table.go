package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"duckcheck/internal/ast"
	"duckcheck/internal/solver"
	"duckcheck/internal/source"
	"duckcheck/internal/types"
)

// ErrUnboundName is wrapped by every NameResolutionError.
var ErrUnboundName = errors.New("unbound name")

// NameResolutionError reports a name no visible scope defines.
type NameResolutionError struct {
	Name  string
	Scope ScopeID
}

func (e *NameResolutionError) Error() string {
	return fmt.Sprintf("name %q is not defined (scope %d)", e.Name, e.Scope)
}

func (e *NameResolutionError) Unwrap() error { return ErrUnboundName }

// ReassignPolicy decides what a second binding of a name in the same scope
// does to the first one.
type ReassignPolicy uint8

const (
	// ReassignUnify keeps one binding and unifies every assigned type into it,
	// so an incompatible reassignment fails.
	ReassignUnify ReassignPolicy = iota
	// ReassignRebind starts a new binding that shadows the previous one.
	ReassignRebind
)

func (p ReassignPolicy) String() string {
	if p == ReassignRebind {
		return "rebind"
	}
	return "unify"
}

// ParseReassignPolicy accepts "unify" (also "") and "rebind".
func ParseReassignPolicy(s string) (ReassignPolicy, error) {
	switch s {
	case "", "unify":
		return ReassignUnify, nil
	case "rebind":
		return ReassignRebind, nil
	}
	return ReassignUnify, fmt.Errorf("unknown reassign policy %q (want unify or rebind)", s)
}

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the scope arenas of one analysis run. Every binding's
// type variable belongs to store.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	store   *solver.Store
	policy  ReassignPolicy
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner, store *solver.Store, policy ReassignPolicy) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
		store:   store,
		policy:  policy,
	}
}

// Policy reports the reassignment policy in force.
func (t *Table) Policy() ReassignPolicy { return t.policy }

// Enter creates a scope for owner nested in parent.
func (t *Table) Enter(kind ScopeKind, parent ScopeID, owner ast.NodeID, name string) ScopeID {
	id := t.Scopes.New(kind, parent, owner)
	if name != "" {
		t.Scopes.Get(id).Name = t.Strings.Intern(name)
	}
	return id
}

// Declare binds name to a fresh variable in scope unless scope already
// binds it, in which case the existing symbol is returned.
func (t *Table) Declare(scope ScopeID, name string, kind SymbolKind, decl ast.NodeID) SymbolID {
	if sym, ok := t.LookupLocal(scope, name); ok {
		return sym
	}
	return t.bind(scope, t.Strings.Intern(name), kind, decl)
}

// Define introduces name in scope with type typ and returns the symbol
// and the unification result. A name already bound in scope is unified
// with typ under ReassignUnify, or shadowed by a new symbol under
// ReassignRebind.
func (t *Table) Define(scope ScopeID, name string, kind SymbolKind, typ types.TypeID, decl ast.NodeID, site types.Site) (SymbolID, types.TypeID) {
	nameID := t.Strings.Intern(name)
	sc := t.Scopes.Get(scope)
	if sc == nil {
		panic(fmt.Sprintf("symbols: define %q in invalid scope %d", name, scope))
	}
	symID, exists := sc.NameIndex[nameID]
	if !exists || t.policy == ReassignRebind {
		symID = t.bind(scope, nameID, kind, decl)
	}
	sym := t.Symbols.Get(symID)
	if !typ.IsValid() {
		return symID, t.store.Shallow(sym.Type)
	}
	return symID, t.store.UnifyAt(site, sym.Type, typ)
}

func (t *Table) bind(scope ScopeID, name source.StringID, kind SymbolKind, decl ast.NodeID) SymbolID {
	sc := t.Scopes.Get(scope)
	id := t.Symbols.New(Symbol{
		Name:  name,
		Kind:  kind,
		Scope: scope,
		Type:  t.store.Fresh(),
		Decl:  decl,
	})
	sc.NameIndex[name] = id
	sc.Symbols = append(sc.Symbols, id)
	return id
}

// LookupLocal finds name in scope only.
func (t *Table) LookupLocal(scope ScopeID, name string) (SymbolID, bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	id, ok := sc.NameIndex[t.Strings.Intern(name)]
	return id, ok
}

// LookupInEnv resolves name starting at scope and walking outward. Class
// bodies are only visible when the lookup starts inside them, so methods
// do not see class-level names unqualified.
func (t *Table) LookupInEnv(scope ScopeID, name string) (SymbolID, error) {
	nameID := t.Strings.Intern(name)
	for cur := scope; cur.IsValid(); {
		sc := t.Scopes.Get(cur)
		if sc == nil {
			break
		}
		if sc.Kind != ScopeClass || cur == scope {
			if id, ok := sc.NameIndex[nameID]; ok {
				return id, nil
			}
		}
		cur = sc.Parent
	}
	return NoSymbolID, &NameResolutionError{Name: name, Scope: scope}
}

// TypeOf is LookupInEnv returning the bound type variable.
func (t *Table) TypeOf(scope ScopeID, name string) (types.TypeID, error) {
	id, err := t.LookupInEnv(scope, name)
	if err != nil {
		return types.NoTypeID, err
	}
	return t.Symbols.Get(id).Type, nil
}

// Bindings returns the current binding of every name in scope, in the
// order the names were first defined.
func (t *Table) Bindings(scope ScopeID) []*Symbol {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return nil
	}
	out := make([]*Symbol, 0, len(sc.Symbols))
	for _, id := range sc.Symbols {
		sym := t.Symbols.Get(id)
		if sc.NameIndex[sym.Name] == id {
			out = append(out, sym)
		}
	}
	return out
}

// NameOf returns the spelling of a symbol's name.
func (t *Table) NameOf(sym *Symbol) string {
	s, _ := t.Strings.Lookup(sym.Name)
	return s
}
