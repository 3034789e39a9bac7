package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"duckcheck/internal/ast"
	"duckcheck/internal/types"
)

// CheckSpanInvariants runs a minimal set of span invariants on a tree:
// 1) every node span belongs to the builder's file
// 2) no child starts on an earlier line than its parent
// 3) the walk reaches every node the builder allocated below root
func CheckSpanInvariants(b *ast.Builder, root ast.NodeID) error {
	if b == nil {
		return fmt.Errorf("nil builder")
	}
	if b.Get(root) == nil {
		return fmt.Errorf("root node %d not found", root)
	}

	var err error
	var visited int
	b.Walk(root, func(id ast.NodeID, _ int) bool {
		if err != nil {
			return false
		}
		visited++
		n := b.Get(id)
		if n.Span.File != b.File {
			err = fmt.Errorf("node %d span points to different file: got=%d want=%d", id, n.Span.File, b.File)
			return false
		}
		if p := b.Get(n.Parent); p != nil && n.Span.Line < p.Span.Line {
			err = fmt.Errorf("node %d (%s) starts on line %d before its parent on line %d", id, n.Kind, n.Span.Line, p.Span.Line)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	count, convErr := safecast.Conv[uint32](visited)
	if convErr != nil {
		return fmt.Errorf("node count overflow: %w", convErr)
	}
	// children are allocated before their parents, so a root built last
	// owns every node
	if root == ast.NodeID(b.Len()) && count != b.Len() {
		return fmt.Errorf("walk reached %d of %d nodes", count, b.Len())
	}
	return nil
}

// CheckAnnotated verifies that every node under root received a type slot.
// slot is usually (*sema.Result).NodeType.
func CheckAnnotated(b *ast.Builder, root ast.NodeID, slot func(ast.NodeID) types.TypeID) error {
	var missing []string
	b.Walk(root, func(id ast.NodeID, _ int) bool {
		if !slot(id).IsValid() {
			missing = append(missing, fmt.Sprintf("%s#%d@%d", b.Kind(id), id, b.Get(id).Line()))
		}
		return true
	})
	if len(missing) > 0 {
		return fmt.Errorf("nodes without a type: %v", missing)
	}
	return nil
}
