package diagfmt

import (
	"io"

	"duckcheck/internal/diag"
	"duckcheck/internal/source"
)

// Short writes one line per diagnostic, sorted by location, with the
// message folded onto that line: `error SEM3005 path:line:col message`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	items := bag.Items()
	ptrs := make([]*diag.Diagnostic, len(items))
	for i := range items {
		ptrs[i] = &items[i]
	}
	out := diag.FormatShortDiagnostics(ptrs, fs, false)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
