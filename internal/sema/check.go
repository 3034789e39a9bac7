package sema

import (
	"context"

	"duckcheck/internal/ast"
	"duckcheck/internal/builtins"
	"duckcheck/internal/diag"
	"duckcheck/internal/solver"
	"duckcheck/internal/symbols"
	"duckcheck/internal/trace"
	"duckcheck/internal/types"
)

// Options configure one inference run over a module.
type Options struct {
	Reporter diag.Reporter
	Policy   symbols.ReassignPolicy
	// Builtins defaults to builtins.Default().
	Builtins *builtins.Table
}

// Check infers a type for every node under root and reports each failure
// once, at the node where it originated. Every call owns a fresh solver
// store and scope table, so independent runs may execute concurrently.
// The tracer is taken from ctx.
func Check(ctx context.Context, b *ast.Builder, root ast.NodeID, opts Options) *Result {
	store := solver.NewStore()
	if b == nil {
		return newResult(nil, root, store, nil)
	}
	table := symbols.NewTable(symbols.Hints{Scopes: 16, Symbols: 64}, b.Strings, store, opts.Policy)
	res := newResult(b, root, store, table)
	if b.Kind(root) != ast.KindModule {
		return res
	}
	if opts.Builtins == nil {
		opts.Builtins = builtins.Default()
	}

	var reporter diag.Reporter
	if opts.Reporter != nil {
		reporter = diag.NewDedupReporter(opts.Reporter)
	}
	tc := &typeChecker{
		builder:  b,
		store:    store,
		types:    store.Types(),
		table:    table,
		builtins: opts.Builtins,
		reporter: reporter,
		tracer:   trace.FromContext(ctx),
		span:     trace.CurrentSpan(ctx).SpanID,
		result:   res,
		classes:  make(map[string]*ClassInfo),
		funcs:    make(map[ast.NodeID]*funcInfo),
	}
	tc.run(root)
	return res
}

func (tc *typeChecker) run(root ast.NodeID) {
	tc.result.Prelude = tc.buildPrelude()
	mod, _ := tc.builder.Module(root)
	tc.result.Module = tc.enterScope(symbols.ScopeModule, tc.result.Prelude, root, tc.builder.Str(mod.Name))
	tc.setSlot(root, tc.types.Builtins().None)

	tc.hoist(tc.result.Module, mod.Body)
	tc.walkBlock(tc.result.Module, mod.Body)
	tc.resolveDeferred()
	tc.report(root)
}

// buildPrelude binds every builtin function in a scope above the module.
func (tc *typeChecker) buildPrelude() symbols.ScopeID {
	scope := tc.table.Enter(symbols.ScopePrelude, symbols.NoScopeID, ast.NoNodeID, "builtins")
	fn := tc.types.Builtins().BuiltinFunc
	for _, name := range tc.builtins.FunctionNames() {
		tc.table.Define(scope, name, symbols.SymbolBuiltin, fn, ast.NoNodeID, types.Site{})
	}
	return scope
}

func (tc *typeChecker) enterScope(kind symbols.ScopeKind, parent symbols.ScopeID, owner ast.NodeID, name string) symbols.ScopeID {
	id := tc.table.Enter(kind, parent, owner, name)
	tc.result.scopes[owner] = id
	return id
}
