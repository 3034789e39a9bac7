package driver

import (
	"strings"

	"duckcheck/internal/diag"
	"duckcheck/internal/sema"
	"duckcheck/internal/source"
	"duckcheck/internal/trace"
)

// traceReporter records each diagnostic as a point event under the
// document's span.
type traceReporter struct {
	tracer trace.Tracer
	parent uint64
}

func (r traceReporter) Report(code diag.Code, _ diag.Severity, primary source.Span, msg string, _ []diag.Note) {
	line, _, _ := strings.Cut(msg, "\n")
	trace.Point(r.tracer, trace.ScopeModule, r.parent, "diag:"+code.ID(), primary.String()+" "+line)
}

// validateDetail checks the scope table an inference run left behind.
func validateDetail(res *sema.Result) string {
	if res == nil || res.Table == nil {
		return "skipped"
	}
	if err := res.Table.Validate(); err != nil {
		return err.Error()
	}
	return "ok"
}
