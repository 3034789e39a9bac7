package diag

// Severity orders diagnostics. Only SevError fails a check run.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]struct{ upper, lower string }{
	SevInfo:    {"INFO", "info"},
	SevWarning: {"WARNING", "warning"},
	SevError:   {"ERROR", "error"},
}

func (s Severity) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return severityNames[s].upper
}

// Label is the lower-case spelling used by the short format.
func (s Severity) Label() string {
	if !s.Valid() {
		return "unknown"
	}
	return severityNames[s].lower
}

// Valid reports whether s is a defined severity. Values read back from the
// cache are checked with it.
func (s Severity) Valid() bool { return int(s) < len(severityNames) }
