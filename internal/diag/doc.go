// Package diag defines the diagnostic model shared by the checker, the driver
// and the CLI.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for the findings produced
//     while inferring types.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// Package diag does not format for humans; rendering lives in internal/diagfmt.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier (codes.go) with a stable string form.
//     Every failure kind the solver can produce has a code; see FromFail.
//   - Message: the exact failure text. Inference messages are multi-line and
//     are compared verbatim by tests, so formatters must not rewrap them.
//   - Primary: the span of the node where the failure originated.
//   - Notes: optional secondary spans.
//
// # Emitting diagnostics
//
// The checker reports through a Reporter. ReportBuilder (NewReportBuilder,
// ReportError, ReportWarning, ReportInfo) collects notes before Emit.
// BagReporter aggregates into a Bag, which supports sorting, deduplication
// and filtering; DedupReporter drops repeats before they reach the next
// reporter.
package diag
