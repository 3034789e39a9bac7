package symbols

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/source"
)

// ScopeID indexes the scope arena. Zero means no scope.
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopePrelude            // builtin functions, parent of every module
	ScopeModule             // module-level (top-level statements)
	ScopeClass              // class body
	ScopeFunction           // function body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopePrelude:
		return "prelude"
	case ScopeModule:
		return "module"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Scope is one type environment. NameIndex holds the current binding of
// each name; Symbols keeps every binding in definition order.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ast.NodeID
	Name      source.StringID
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
