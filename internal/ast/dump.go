package ast

import (
	"fmt"
	"io"
	"strings"
)

// Annotator supplies a trailing note for a node in a tree dump, typically
// its inferred type. Empty strings are omitted.
type Annotator func(id NodeID) string

// Dump writes an indented outline of the subtree rooted at id.
func (b *Builder) Dump(w io.Writer, id NodeID, note Annotator) error {
	var err error
	b.Walk(id, func(cur NodeID, depth int) bool {
		if err != nil {
			return false
		}
		line := b.describe(cur)
		if note != nil {
			if extra := note(cur); extra != "" {
				line += " :: " + extra
			}
		}
		_, err = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), line)
		return err == nil
	})
	return err
}

func (b *Builder) describe(id NodeID) string {
	n := b.Get(id)
	head := fmt.Sprintf("%s@%d", n.Kind, n.Span.Line)
	switch n.Kind {
	case KindModule:
		d, _ := b.Module(id)
		return head + " " + b.Str(d.Name)
	case KindClassDef:
		d, _ := b.ClassDef(id)
		return head + " " + b.Str(d.Name)
	case KindFunctionDef:
		d, _ := b.FunctionDef(id)
		return head + " " + b.Str(d.Name)
	case KindArg:
		d, _ := b.Arg(id)
		return head + " " + b.Str(d.Name)
	case KindAugAssign:
		d, _ := b.AugAssign(id)
		return head + " " + d.Op.String() + "="
	}
	if n.Kind.IsExpr() {
		return head + " " + b.Format(id)
	}
	return head
}
