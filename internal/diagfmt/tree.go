package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"duckcheck/internal/ast"
	"duckcheck/internal/sema"
)

// TreeOpts configures the annotated tree dump.
type TreeOpts struct {
	// Failures appends the failure message to nodes whose slot is a
	// TypeFail instead of the rendered type.
	Failures bool
}

// Tree writes the indented outline of res's module with every node's
// inferred type after "::".
func Tree(w io.Writer, res *sema.Result, opts TreeOpts) error {
	if res == nil || res.Builder == nil {
		return nil
	}
	return res.Builder.Dump(w, res.Root, func(id ast.NodeID) string {
		if opts.Failures {
			if msg, ok := res.FailMessage(id); ok {
				return "fail: " + firstLine(msg)
			}
		}
		return res.Note(id)
	})
}

// TypedNode is one entry of the JSON tree dump.
type TypedNode struct {
	Kind     string      `json:"kind"`
	Line     uint32      `json:"line"`
	Text     string      `json:"text,omitempty"`
	Type     string      `json:"type,omitempty"`
	Fail     string      `json:"fail,omitempty"`
	Children []TypedNode `json:"children,omitempty"`
}

// BuildTypedTree converts res into nested TypedNodes.
func BuildTypedTree(res *sema.Result) TypedNode {
	b := res.Builder
	var build func(id ast.NodeID) TypedNode
	build = func(id ast.NodeID) TypedNode {
		n := b.Get(id)
		tn := TypedNode{
			Kind: n.Kind.String(),
			Line: n.Line(),
			Type: res.TypeString(id),
		}
		if n.Kind.IsExpr() {
			tn.Text = b.Format(id)
		}
		if msg, ok := res.FailMessage(id); ok {
			tn.Fail = msg
		}
		for _, c := range b.Children(id) {
			tn.Children = append(tn.Children, build(c))
		}
		return tn
	}
	return build(res.Root)
}

// TreeJSON writes the typed tree as indented JSON.
func TreeJSON(w io.Writer, res *sema.Result) error {
	if res == nil || res.Builder == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildTypedTree(res))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
