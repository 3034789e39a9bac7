package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"duckcheck/internal/ast"
	"duckcheck/internal/testkit"
)

const maxSeedBytes = 64 << 10

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addTreeSeeds(f)
	f.Add([]byte{})
	f.Add([]byte(`{"kind": "Module", "line": 1}`))
	f.Add([]byte(`{"kind": "Module", "children": {"body": [{"kind": "Lambda"}]}}`))
	f.Add([]byte(`{"kind": "Name", "name": "x"}`))
	// nodes in roles that cannot hold them
	f.Add([]byte(`{"kind": "Module", "children": {"body": [{"kind": "FunctionDef", "name": "f", "children": {"args": [{"kind": "Name", "name": "a"}]}}]}}`))
	f.Add([]byte(`{"kind": "Module", "children": {"body": [{"kind": "Arg", "name": "a"}]}}`))
}

// addTestdataSeeds adds every JSON document under the repository testdata
// directory.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(path, ".ast.json") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(data))
		return nil
	})
}

// addTreeSeeds exports a few hand-built modules covering classes, calls
// and containers.
func addTreeSeeds(f *testing.F) {
	for _, build := range []func(*testkit.Tree) ast.NodeID{
		func(tr *testkit.Tree) ast.NodeID {
			return tr.Module(
				tr.Class(1, "Person", nil,
					tr.Def(2, "__init__", tr.Params(2, "self", "name"),
						tr.Assign(3, tr.Self(3, "name"), tr.Name(3, "name")),
					),
				),
				tr.Assign(4, tr.Name(4, "p"), tr.Call(4, tr.Name(4, "Person"), tr.Str(4, "ann"))),
				tr.Expr(5, tr.Method(5, tr.Attr(5, tr.Name(5, "p"), "name"), "upper")),
			)
		},
		func(tr *testkit.Tree) ast.NodeID {
			return tr.Module(
				tr.Assign(1, tr.Name(1, "xs"), tr.List(1, tr.Int(1, 1), tr.Int(1, 2))),
				tr.For(2, tr.Name(2, "x"), tr.Name(2, "xs"),
					tr.Expr(3, tr.Method(3, tr.Name(3, "xs"), "append", tr.Str(3, "bad"))),
				),
				tr.Assign(4, tr.Name(4, "d"), tr.Dict(4,
					[]ast.NodeID{tr.Str(4, "k")}, []ast.NodeID{tr.Float(4, "1.5")})),
			)
		},
		func(tr *testkit.Tree) ast.NodeID {
			return tr.Module(
				tr.Def(1, "f", tr.Params(1, "a", "b"),
					tr.Return(2, tr.Bin(2, tr.Name(2, "a"), ast.OpAdd, tr.Name(2, "b"))),
				),
				tr.Expr(3, tr.Call(3, tr.Name(3, "f"), tr.Int(3, 1))),
				tr.Expr(4, tr.Name(4, "missing")),
			)
		},
	} {
		tr := testkit.NewTree()
		root := build(tr)
		var buf bytes.Buffer
		if err := tr.B.Export(root).Encode(&buf, ast.DocJSON); err != nil {
			f.Fatalf("encode seed: %v", err)
		}
		f.Add(buf.Bytes())
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
