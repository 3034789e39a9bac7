package symbols

import (
	"errors"
	"fmt"
	"slices"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID := ScopeID(idx) //nolint:gosec // bounded by arena length
		scope := t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Parent.IsValid() {
			if scope.Parent >= scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
				continue
			}
			if !slices.Contains(t.Scopes.data[scope.Parent].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		}
		// scope.Symbols keeps definition order, so errors come out in a
		// stable order
		indexed := 0
		for _, symID := range scope.Symbols {
			sym := t.Symbols.Get(symID)
			switch {
			case sym == nil:
				errs = append(errs, fmt.Errorf("scope %d lists missing symbol %d", scopeID, symID))
				continue
			case sym.Scope != scopeID:
				errs = append(errs, fmt.Errorf("symbol %d listed in scope %d but owned by %d", symID, scopeID, sym.Scope))
			}
			latest, ok := scope.NameIndex[sym.Name]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("symbol %d missing from the name index of scope %d", symID, scopeID))
			case latest == symID:
				indexed++
			}
		}
		if indexed != len(scope.NameIndex) {
			errs = append(errs, fmt.Errorf("scope %d indexes %d names but lists %d of them", scopeID, len(scope.NameIndex), indexed))
		}
	}

	for idx := 1; idx < len(t.Symbols.data); idx++ {
		sym := t.Symbols.data[idx]
		if !sym.Type.IsValid() {
			errs = append(errs, fmt.Errorf("symbol %d has no type variable", idx))
		}
		if t.Scopes.Get(sym.Scope) == nil {
			errs = append(errs, fmt.Errorf("symbol %d has invalid scope %d", idx, sym.Scope))
		}
	}
	return errors.Join(errs...)
}
