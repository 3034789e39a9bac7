package driver

import "duckcheck/internal/symbols"

// Options configure a Check run.
type Options struct {
	// MaxDiagnostics caps the merged bag; 0 keeps everything.
	MaxDiagnostics int
	// Jobs bounds the documents checked at once; 0 uses GOMAXPROCS.
	Jobs   int
	Policy symbols.ReassignPolicy
	// Cache, when set, skips inference for documents seen before.
	Cache  *DiskCache
	Events EventSink
	// Timings appends an ObsTimings diagnostic to the merged bag.
	Timings bool
	// BaseDir is used for relative paths in output.
	BaseDir string
}
