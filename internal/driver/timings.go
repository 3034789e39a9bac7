package driver

import (
	"encoding/json"
	"fmt"

	"duckcheck/internal/diag"
	"duckcheck/internal/observ"
	"duckcheck/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds the timer report as an info diagnostic whose
// single note carries the JSON payload.
func appendTimingDiagnostic(bag *diag.Bag, fileSet *source.FileSet, timer *observ.Timer) {
	report := timer.Report()
	data, err := json.Marshal(timingPayload{Kind: "check", TotalMS: report.TotalMS, Phases: report.Phases})
	if err != nil {
		return
	}
	at := source.At(fileSet.AddVirtual("<timings>", nil), 0, 0)
	d := diag.NewInfo(diag.ObsTimings, at, fmt.Sprintf("timings (check): total %.2f ms", report.TotalMS)).
		WithNote(at, string(data))

	if bag.Add(d) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(d)
	bag.Merge(overflow)
}
