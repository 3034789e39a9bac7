package diagfmt

import (
	"fmt"
	"io"

	"duckcheck/internal/sema"
	"duckcheck/internal/symbols"
)

// Bindings writes every name bound at module level, then the members of
// each class, one "name: type" per line. Types that still hold free
// variables are marked "(partial)".
func Bindings(w io.Writer, res *sema.Result) error {
	if res == nil || res.Table == nil {
		return nil
	}
	write := func(prefix string, scope symbols.ScopeID) error {
		for _, sym := range res.Table.Bindings(scope) {
			line := prefix + res.Table.NameOf(sym) + ": " + res.Store.Render(sym.Type)
			if !res.Store.Ground(sym.Type) {
				line += " (partial)"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write("", res.Module); err != nil {
		return err
	}
	for _, c := range res.Classes {
		if err := write(c.Name+".", c.Scope); err != nil {
			return err
		}
	}
	return nil
}
