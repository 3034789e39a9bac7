package sema

import (
	"slices"

	"duckcheck/internal/ast"
	"duckcheck/internal/diag"
	"duckcheck/internal/types"
)

// report emits one diagnostic per distinct failure reachable from a node
// slot, located at the node the failure originated from. Diagnostics are
// emitted in source order of their origins.
func (tc *typeChecker) report(root ast.NodeID) {
	order := make(map[ast.NodeID]int)
	seen := make(map[types.TypeID]bool)
	var failures []Failure

	tc.builder.Walk(root, func(id ast.NodeID, _ int) bool {
		order[id] = len(order)
		t := tc.result.slots[id]
		if !t.IsValid() || !tc.isFail(t) {
			return true
		}
		f := tc.store.Shallow(t)
		if seen[f] {
			return true
		}
		seen[f] = true
		info, _ := tc.store.FailInfo(f)
		origin := ast.NodeID(info.Site.Node)
		if !origin.IsValid() {
			origin = id
		}
		failures = append(failures, Failure{Node: origin, Type: f, Info: info})
		return true
	})

	slices.SortStableFunc(failures, func(a, b Failure) int {
		return order[a.Node] - order[b.Node]
	})
	tc.result.Failures = failures

	if tc.reporter == nil {
		return
	}
	for _, f := range failures {
		span := tc.node(f.Node).Span
		diag.ReportError(tc.reporter, diag.FromFail(f.Info.Kind), span, f.Info.Message).Emit()
	}
}
