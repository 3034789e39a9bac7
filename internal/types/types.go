package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

// Kind enumerates the shapes a type descriptor can take.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindVar is a type variable; its meaning lives in the solver.
	KindVar
	// KindConcrete is a named type applied to zero or more arguments.
	KindConcrete
	// KindForward stands for an instance of a user class, keyed by name.
	KindForward
	// KindFail is a terminal failure carrying a diagnostic.
	KindFail
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVar:
		return "var"
	case KindConcrete:
		return "concrete"
	case KindForward:
		return "forward"
	case KindFail:
		return "fail"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Names of the concrete types the checker knows about.
const (
	NameAny      = "Any"
	NameInt      = "int"
	NameFloat    = "float"
	NameStr      = "str"
	NameBool     = "bool"
	NameNone     = "NoneType"
	NameList     = "List"
	NameTuple    = "Tuple"
	NameDict     = "Dict"
	NameSet      = "Set"
	NameCallable = "Callable"
	// NameType wraps a ForwardRef to denote the class object itself.
	NameType = "Type"
	// NameBuiltinFunc is the type of prelude functions such as len.
	NameBuiltinFunc = "builtin_function_or_method"
)

// Type is a compact descriptor. Args of concrete types and fail records
// live in side tables addressed by Payload.
type Type struct {
	Kind    Kind
	Name    string // concrete and forward types
	Payload uint32 // args slot, fail slot or variable serial
}
