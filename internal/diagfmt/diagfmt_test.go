package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckcheck/internal/diag"
	"duckcheck/internal/sema"
	"duckcheck/internal/source"
	"duckcheck/internal/testkit"
)

const attrMessage = "Attribute access error!\nIn the Attribute node in line 2:\n" +
	"the object \"x\" does not have the attribute \"wrong_name\"."

func sample(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("prog.py", []byte("x = 1\nx.wrong_name\n"))
	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemaAttributeAccess,
		source.Span{File: id, Line: 2, Col: 0, EndLine: 2, EndCol: 12}, attrMessage)
	d = d.WithNote(source.At(id, 1, 0), "x is bound to int here")
	require.True(t, bag.Add(d))
	return bag, fs
}

func TestPrettyPrintsMessageAndCaret(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, bag, fs, PrettyOpts{ShowSource: true, ShowNotes: true}))

	want := "prog.py:2:1: ERROR SEM3002: Attribute access error!\n" +
		"  In the Attribute node in line 2:\n" +
		"  the object \"x\" does not have the attribute \"wrong_name\".\n" +
		" 2 | x.wrong_name\n" +
		"   | ^~~~~~~~~~~~\n" +
		"  note prog.py:1:1: x is bound to int here\n"
	assert.Equal(t, want, buf.String())
}

func TestPrettySkipsSourceForDocuments(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("prog.ast.json", []byte(`{"kind":"Module"}`), source.FileDocument)
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.SemaUnboundName, source.At(id, 1, 0), "Name resolution error!"))

	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, bag, fs, PrettyOpts{ShowSource: true}))
	assert.Equal(t, "prog.ast.json:1:1: ERROR SEM3001: Name resolution error!\n", buf.String())
}

func TestCaretHandlesWideRunesAndTabs(t *testing.T) {
	assert.Equal(t, "\t    ", caretIndent("\t世界x", 7))
	assert.Equal(t, "", caretIndent("abc", 0))
	assert.Equal(t, "   ", caretIndent("abc", 99))

	span := source.Span{Line: 1, Col: 1, EndLine: 1, EndCol: 7}
	assert.Equal(t, "^~~~", underline("x世界", span))
	assert.Equal(t, "^", underline("x", source.At(0, 1, 0)))
}

func TestShortFoldsMessage(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Short(&buf, bag, fs))
	assert.Equal(t, "error SEM3002 prog.py:2:1 "+strings.ReplaceAll(attrMessage, "\n", " ")+"\n", buf.String())

	buf.Reset()
	require.NoError(t, Short(&buf, diag.NewBag(1), fs))
	assert.Empty(t, buf.String())
}

func TestJSONOutput(t *testing.T) {
	bag, fs := sample(t)
	bag.Add(diag.NewError(diag.SemaUnboundName, source.At(0, 1, 0), "second"))

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, Max: 1, IncludeNotes: true}))

	var out DiagnosticsOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 2, out.Total)
	d := out.Diagnostics[0]
	assert.Equal(t, "ERROR", d.Severity)
	assert.Equal(t, "SEM3002", d.Code)
	assert.Equal(t, attrMessage, d.Message)
	assert.Equal(t, LocationJSON{File: "prog.py", StartLine: 2, StartCol: 1, EndLine: 2, EndCol: 13}, d.Location)
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "x is bound to int here", d.Notes[0].Message)
}

func TestSarifLog(t *testing.T) {
	bag, fs := sample(t)
	var buf bytes.Buffer
	require.NoError(t, Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "duckcheck", ToolVersion: "0.1.0"}))

	var log map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log["version"])

	runs := log["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)
	results := run["results"].([]any)
	require.Len(t, results, 1)
	res := results[0].(map[string]any)
	assert.Equal(t, "SEM3002", res["ruleId"])
	assert.Equal(t, "error", res["level"])

	loc := res["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)
	assert.Equal(t, "prog.py", loc["artifactLocation"].(map[string]any)["uri"])
	assert.EqualValues(t, 2, loc["region"].(map[string]any)["startLine"])

	rules := run["tool"].(map[string]any)["driver"].(map[string]any)["rules"].([]any)
	require.Len(t, rules, 1)
}

func TestTreeDumpAnnotatesTypes(t *testing.T) {
	tr := testkit.NewTree()
	attr := tr.Attr(2, tr.Name(2, "x"), "wrong_name")
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "x"), tr.Int(1, 1)),
		tr.Expr(2, attr),
	)
	res := sema.Check(context.Background(), tr.B, root, sema.Options{})

	var buf bytes.Buffer
	require.NoError(t, Tree(&buf, res, TreeOpts{Failures: true}))
	out := buf.String()
	assert.Contains(t, out, "Module@1 test :: NoneType\n")
	assert.Contains(t, out, "    Const@1 1 :: int\n")
	assert.Contains(t, out, "Attribute@2 x.wrong_name :: fail: Attribute access error!\n")

	typed := BuildTypedTree(res)
	require.Len(t, typed.Children, 2)
	assert.Equal(t, "Assign", typed.Children[0].Kind)
	assert.Equal(t, "int", typed.Children[0].Children[0].Type)
	assert.Equal(t, attrMessage, typed.Children[1].Children[0].Fail)

	buf.Reset()
	require.NoError(t, TreeJSON(&buf, res))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestBindingsListsModuleAndClassMembers(t *testing.T) {
	tr := testkit.NewTree()
	root := tr.Module(
		tr.Assign(1, tr.Name(1, "x"), tr.Int(1, 1)),
		tr.Def(2, "ident", tr.Params(2, "a"), tr.Return(3, tr.Name(3, "a"))),
		tr.Class(4, "P", nil,
			tr.Def(5, "__init__", tr.Params(5, "self"),
				tr.Assign(6, tr.Self(6, "n"), tr.Str(6, "s")),
			),
		),
	)
	res := sema.Check(context.Background(), tr.B, root, sema.Options{})

	var buf bytes.Buffer
	require.NoError(t, Bindings(&buf, res))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Contains(t, lines, "x: int")
	assert.Contains(t, lines, "P.n: str")

	var ident string
	for _, l := range lines {
		if strings.HasPrefix(l, "ident: ") {
			ident = l
		}
	}
	assert.True(t, strings.HasSuffix(ident, " (partial)"), ident)
}
