package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelScopes(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", c.level, c.scope, got, c.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if f, err := ParseFormat("jsonl"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat: %v %v", f, err)
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
}

func TestStreamFiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "infer", 0)
	Point(tr, ScopeNode, span.ID(), "fail", "hidden")
	span.End("done")

	out := buf.String()
	if !strings.Contains(out, "→ infer") || !strings.Contains(out, "← infer (done)") {
		t.Fatalf("missing span events:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("node event leaked at phase level:\n%s", out)
	}
}

func TestNDJSONIsOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, 7, "fail", "line one\nline two")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "point" || ev["scope"] != "node" || ev["detail"] != "line one\nline two" {
		t.Fatalf("unexpected event: %v", ev)
	}
}

func TestTextFormatSortsExtra(t *testing.T) {
	ev := &Event{Kind: KindSpanEnd, Name: "doc", Extra: map[string]string{"b": "2", "a": "1"}}
	got := string(FormatEvent(ev, FormatText))
	if !strings.HasSuffix(got, "← doc {a=1, b=2}\n") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, 0, name, "")
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d", r.Len())
	}
	snap := r.Snapshot()
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Fatalf("snapshot order = %v", names)
	}
	if snap[0].Seq >= snap[2].Seq {
		t.Fatalf("sequence numbers not increasing: %d %d", snap[0].Seq, snap[2].Seq)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("dump:\n%s", buf.String())
	}
}

func TestMultiCopiesEvents(t *testing.T) {
	a := NewRingTracer(4, LevelDebug)
	b := NewRingTracer(4, LevelDebug)
	m := NewMultiTracer(LevelDebug, a, b)
	Point(m, ScopeNode, 0, "x", "")

	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("fan-out failed: %d %d", a.Len(), b.Len())
	}
	if r, ok := RingOf(m); !ok || r != a {
		t.Fatal("RingOf should find the first ring")
	}
	if _, ok := RingOf(Nop); ok {
		t.Fatal("Nop has no ring")
	}
}

func TestBeginCtxNestsSpans(t *testing.T) {
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)

	ctx, outer := BeginCtx(ctx, ScopeDriver, "check")
	_, inner := BeginCtx(ctx, ScopeModule, "doc:a.json")
	inner.End("")
	outer.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("expected 4 events, got %d", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
	if snap[3].Extra["dur"] == "" {
		t.Fatal("end event should carry its duration")
	}
}

func TestDisabledTracerIsInert(t *testing.T) {
	ctx, span := BeginCtx(context.Background(), ScopeDriver, "check")
	if span.ID() != 0 {
		t.Fatal("span should be inert without a tracer")
	}
	if CurrentSpan(ctx).SpanID != 0 {
		t.Fatal("inert spans must not become current")
	}
	if span.End("") != 0 {
		t.Fatal("inert span should report zero duration")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff should yield Nop: %v %v", tr, err)
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for r.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	if r.Len() == 0 {
		t.Fatal("no heartbeat recorded")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat should not start for a disabled tracer")
	}
}
