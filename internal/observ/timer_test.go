package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by one millisecond per reading.
func fakeClock() func() time.Time {
	cur := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur = cur.Add(time.Millisecond)
		return cur
	}
}

func TestTimerPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock()

	load := tm.Begin("load")
	tm.End(load, "2 files")
	infer := tm.Begin("infer")
	tm.End(infer, "")
	tm.End(42, "ignored")

	phases := tm.Phases()
	if len(phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(phases))
	}
	if phases[0].Dur != time.Millisecond || phases[0].Note != "2 files" {
		t.Fatalf("unexpected load phase: %+v", phases[0])
	}

	r := tm.Report()
	if r.TotalMS != 3 {
		t.Fatalf("total = %v ms, want 3", r.TotalMS)
	}
	if r.Phases[1].Name != "infer" || r.Phases[1].DurationMS != 1 {
		t.Fatalf("unexpected infer report: %+v", r.Phases[1])
	}
}

func TestTimerOverlappingPhasesUseWallTime(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock()

	a := tm.Begin("infer:a.json") // t=1
	b := tm.Begin("infer:b.json") // t=2
	tm.End(a, "")                 // t=3
	tm.End(b, "")                 // t=4

	if got := tm.Report().TotalMS; got != 3 {
		t.Fatalf("total = %v ms, want 3", got)
	}
}

func TestTimeMarksFailures(t *testing.T) {
	tm := NewTimer()
	boom := errors.New("boom")
	if err := tm.Time("load", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Time should return fn's error, got %v", err)
	}
	if got := tm.Phases()[0].Note; got != "failed" {
		t.Fatalf("note = %q", got)
	}
}

func TestSummary(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock()
	tm.End(tm.Begin("load"), "1 file")

	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") {
		t.Fatalf("summary header missing:\n%s", s)
	}
	if !strings.Contains(s, "load") || !strings.Contains(s, "// 1 file") || !strings.Contains(s, "total") {
		t.Fatalf("summary incomplete:\n%s", s)
	}
	if (&Timer{}).Report().Phases != nil {
		t.Fatal("empty timer should report no phases")
	}
}
