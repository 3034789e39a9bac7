package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckcheck/internal/source"
	"duckcheck/internal/types"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/testdata/golden/sample.json", []byte("{}\n"), source.FileDocument)
	prelude := fs.AddVirtual("<prelude>", nil)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     SemaUnificationConflict,
			Message:  "first line\nsecond",
			Primary:  source.At(userFile, 3, 4),
			Notes: []Note{
				{Span: source.At(prelude, 1, 0), Msg: "prelude note"},
				{Span: source.At(userFile, 1, 0), Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SemaInfo,
			Message:  "another",
			Primary:  source.At(userFile, 2, 0),
		},
	}

	expected := "note SEM3005 <prelude>:1:1 prelude note\n" +
		"note SEM3005 testdata/golden/sample.json:1:1 note line\n" +
		"warning SEM3000 testdata/golden/sample.json:2:1 another\n" +
		"error SEM3005 testdata/golden/sample.json:3:5 first line second"

	assert.Equal(t, expected, FormatShortDiagnostics(diags, fs, true))
	assert.NotContains(t, FormatShortDiagnostics(diags, fs, false), "note")
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	r := &BagReporter{Bag: bag}
	r.Report(SemaAttributeAccess, SevError, source.At(0, 5, 2), "b", nil)
	r.Report(SemaUnboundName, SevError, source.At(0, 1, 0), "a", nil)
	r.Report(SemaUnboundName, SevError, source.At(0, 1, 0), "a", nil)
	r.Report(SemaInfo, SevInfo, source.At(0, 1, 0), "a", nil)

	bag.Dedup()
	bag.Sort()
	require.Equal(t, 3, bag.Len())
	assert.Equal(t, SemaUnboundName, bag.Items()[0].Code)
	assert.Equal(t, SemaInfo, bag.Items()[1].Code)
	assert.Equal(t, SemaAttributeAccess, bag.Items()[2].Code)
	assert.True(t, bag.HasErrors())
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	assert.True(t, bag.Add(NewError(SemaInfo, source.Span{}, "x")))
	assert.False(t, bag.Add(NewError(SemaInfo, source.Span{}, "y")))

	other := NewBag(2)
	other.Add(NewError(SemaInfo, source.Span{}, "z"))
	bag.Merge(other)
	assert.Equal(t, 2, bag.Len())
	assert.Equal(t, uint16(2), bag.Cap())
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(&BagReporter{Bag: bag})
	for range 3 {
		ReportError(r, SemaUnboundName, source.At(0, 2, 1), "same").Emit()
	}
	ReportError(r, SemaUnboundName, source.At(0, 2, 1), "other").WithNote(source.At(0, 1, 0), "here").Emit()
	require.Equal(t, 2, bag.Len())
	assert.Len(t, bag.Items()[1].Notes, 1)
}

func TestFromFail(t *testing.T) {
	assert.Equal(t, SemaUnboundName, FromFail(types.FailUnboundName))
	assert.Equal(t, SemaSelfTypeMismatch, FromFail(types.FailSelfType))
	assert.Equal(t, SemaUnknownBuiltinMethod, FromFail(types.FailUnknownMethod))
	assert.Equal(t, UnknownCode, FromFail(types.FailNone))
	assert.Equal(t, "SEM3004", SemaArgumentTypeMismatch.ID())
	assert.Equal(t, "[IO4002]: Malformed AST document", IODecodeError.String())
}

func TestSeveritySpellings(t *testing.T) {
	assert.Equal(t, "ERROR", SevError.String())
	assert.Equal(t, "warning", SevWarning.Label())
	assert.True(t, SevInfo.Valid())
	assert.False(t, Severity(7).Valid())
	assert.Equal(t, "UNKNOWN", Severity(7).String())
}

func TestWithNoteDoesNotShareNotes(t *testing.T) {
	base := NewError(SemaInfo, source.At(0, 1, 0), "x").WithNote(source.At(0, 1, 0), "first")
	a := base.WithNote(source.At(0, 2, 0), "a")
	b := base.WithNote(source.At(0, 3, 0), "b")
	require.Len(t, base.Notes, 1)
	assert.Equal(t, "a", a.Notes[1].Msg)
	assert.Equal(t, "b", b.Notes[1].Msg)
}
