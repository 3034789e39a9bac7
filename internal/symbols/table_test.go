package symbols

import (
	"errors"
	"fmt"
	"testing"

	"duckcheck/internal/ast"
	"duckcheck/internal/solver"
	"duckcheck/internal/types"
)

func newTable(policy ReassignPolicy) (*Table, *solver.Store) {
	store := solver.NewStore()
	return NewTable(Hints{}, nil, store, policy), store
}

func TestLookupWalksOutward(t *testing.T) {
	table, store := newTable(ReassignUnify)
	b := store.Types().Builtins()
	mod := table.Enter(ScopeModule, NoScopeID, ast.NoNodeID, "m")
	fn := table.Enter(ScopeFunction, mod, ast.NoNodeID, "f")

	table.Define(mod, "x", SymbolVar, b.Int, ast.NoNodeID, types.Site{})
	typ, err := table.TypeOf(fn, "x")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got, _ := store.LookupConcrete(typ); got != b.Int {
		t.Fatalf("x resolved to %s", store.Render(got))
	}
	if err := table.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLookupSkipsEnclosingClassBodies(t *testing.T) {
	table, store := newTable(ReassignUnify)
	b := store.Types().Builtins()
	mod := table.Enter(ScopeModule, NoScopeID, ast.NoNodeID, "m")
	cls := table.Enter(ScopeClass, mod, ast.NoNodeID, "C")
	method := table.Enter(ScopeFunction, cls, ast.NoNodeID, "m")

	table.Define(cls, "count", SymbolVar, b.Int, ast.NoNodeID, types.Site{})
	if _, err := table.LookupInEnv(cls, "count"); err != nil {
		t.Fatalf("class body should see its own names: %v", err)
	}
	_, err := table.LookupInEnv(method, "count")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("method saw a class-level name: %v", err)
	}
	var nre *NameResolutionError
	if !errors.As(err, &nre) || nre.Name != "count" {
		t.Fatalf("error = %#v", err)
	}
}

func TestDefineUnifiesReassignment(t *testing.T) {
	table, store := newTable(ReassignUnify)
	b := store.Types().Builtins()
	mod := table.Enter(ScopeModule, NoScopeID, ast.NoNodeID, "m")
	site := types.Site{Kind: "Assign", Line: 2}

	first, _ := table.Define(mod, "x", SymbolVar, b.Int, ast.NoNodeID, site)
	second, res := table.Define(mod, "x", SymbolVar, b.Str, ast.NoNodeID, site)
	if first != second {
		t.Fatalf("unify policy must keep one binding")
	}
	info, ok := store.FailInfo(res)
	if !ok || info.Kind != types.FailUnification {
		t.Fatalf("incompatible reassignment should fail, got %s", store.Render(res))
	}
	if len(table.Bindings(mod)) != 1 {
		t.Fatalf("bindings = %d", len(table.Bindings(mod)))
	}
}

func TestDefineRebindShadows(t *testing.T) {
	table, store := newTable(ReassignRebind)
	b := store.Types().Builtins()
	mod := table.Enter(ScopeModule, NoScopeID, ast.NoNodeID, "m")

	first, _ := table.Define(mod, "x", SymbolVar, b.Int, ast.NoNodeID, types.Site{})
	second, res := table.Define(mod, "x", SymbolVar, b.Str, ast.NoNodeID, types.Site{})
	if first == second || store.IsFail(res) {
		t.Fatalf("rebind should create a fresh binding without failing")
	}
	typ, _ := table.TypeOf(mod, "x")
	if got, _ := store.LookupConcrete(typ); got != b.Str {
		t.Fatalf("x resolved to %s", store.Render(got))
	}
	if bs := table.Bindings(mod); len(bs) != 1 || bs[0].Type != table.Symbols.Get(second).Type {
		t.Fatalf("Bindings should report the latest binding only")
	}
}

func TestDeclareIsIdempotent(t *testing.T) {
	table, _ := newTable(ReassignUnify)
	mod := table.Enter(ScopeModule, NoScopeID, ast.NoNodeID, "m")
	a := table.Declare(mod, "f", SymbolFunction, ast.NoNodeID)
	b := table.Declare(mod, "f", SymbolFunction, ast.NoNodeID)
	if a != b {
		t.Fatalf("Declare created a second symbol")
	}
}

func TestParseReassignPolicy(t *testing.T) {
	if p, err := ParseReassignPolicy("rebind"); err != nil || p != ReassignRebind {
		t.Fatalf("rebind: %v %v", p, err)
	}
	if p, err := ParseReassignPolicy(""); err != nil || p != ReassignUnify {
		t.Fatalf("default: %v %v", p, err)
	}
	if _, err := ParseReassignPolicy("union"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateReportsInDefinitionOrder(t *testing.T) {
	table, store := newTable(ReassignUnify)
	b := store.Types().Builtins()
	mod := table.Enter(ScopeModule, NoScopeID, ast.NoNodeID, "m")
	fn := table.Enter(ScopeFunction, mod, ast.NoNodeID, "f")
	first, _ := table.Define(mod, "a", SymbolVar, b.Int, ast.NoNodeID, types.Site{})
	second, _ := table.Define(mod, "b", SymbolVar, b.Str, ast.NoNodeID, types.Site{})

	table.Symbols.Get(first).Scope = fn
	delete(table.Scopes.Get(mod).NameIndex, table.Symbols.Get(second).Name)

	want := fmt.Sprintf("symbol %d listed in scope %d but owned by %d\nsymbol %d missing from the name index of scope %d",
		first, mod, fn, second, mod)
	for range 5 {
		err := table.Validate()
		if err == nil || err.Error() != want {
			t.Fatalf("Validate() = %v, want %q", err, want)
		}
	}
}
