package symbols

import (
	"duckcheck/internal/ast"
	"duckcheck/internal/source"
	"duckcheck/internal/types"
)

// SymbolID indexes the symbol arena. Zero means no symbol.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// SymbolKind classifies what introduced a binding.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVar
	SymbolParam
	SymbolFunction
	SymbolClass
	SymbolAttr
	SymbolBuiltin
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolParam:
		return "param"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	case SymbolAttr:
		return "attr"
	case SymbolBuiltin:
		return "builtin"
	default:
		return "invalid"
	}
}

// Symbol binds a name to a type variable owned by the table's store.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Type  types.TypeID
	Decl  ast.NodeID
}
