package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the argument-free builtin types.
type Builtins struct {
	Any         TypeID
	Int         TypeID
	Float       TypeID
	Str         TypeID
	Bool        TypeID
	None        TypeID
	BuiltinFunc TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Concrete and forward types are deduplicated; variables and failures are
// always fresh.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	args     [][]TypeID
	fails    []FailInfo
	vars     uint32
	builtins Builtins
}

// NewInterner constructs an interner seeded with the builtin scalars.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.args = append(in.args, nil)          // reserve 0: no arguments
	in.fails = append(in.fails, FailInfo{}) // reserve 0 as invalid sentinel
	in.types = append(in.types, Type{Kind: KindInvalid})
	in.builtins.Any = in.Concrete(NameAny)
	in.builtins.Int = in.Concrete(NameInt)
	in.builtins.Float = in.Concrete(NameFloat)
	in.builtins.Str = in.Concrete(NameStr)
	in.builtins.Bool = in.Concrete(NameBool)
	in.builtins.None = in.Concrete(NameNone)
	in.builtins.BuiltinFunc = in.Concrete(NameBuiltinFunc)
	return in
}

// Builtins returns TypeIDs for the scalar builtins.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Concrete interns name[args...].
func (in *Interner) Concrete(name string, args ...TypeID) TypeID {
	key := typeKey{Kind: KindConcrete, Name: name, Args: packArgs(args)}
	if id, ok := in.index[key]; ok {
		return id
	}
	var slot uint32
	if len(args) > 0 {
		slot = in.appendArgs(args)
	}
	id := in.internRaw(Type{Kind: KindConcrete, Name: name, Payload: slot})
	in.index[key] = id
	return id
}

// Forward interns the instance placeholder for class name.
func (in *Interner) Forward(name string) TypeID {
	key := typeKey{Kind: KindForward, Name: name}
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(Type{Kind: KindForward, Name: name})
	in.index[key] = id
	return id
}

// ClassObject is Type[ForwardRef(name)], the type of the class itself.
func (in *Interner) ClassObject(name string) TypeID {
	return in.Concrete(NameType, in.Forward(name))
}

// Callable builds Callable[[params...], ret]; the return type is the
// last argument.
func (in *Interner) Callable(params []TypeID, ret TypeID) TypeID {
	args := make([]TypeID, 0, len(params)+1)
	args = append(args, params...)
	args = append(args, ret)
	return in.Concrete(NameCallable, args...)
}

// NewVar allocates a fresh type variable.
func (in *Interner) NewVar() TypeID {
	in.vars++
	return in.internRaw(Type{Kind: KindVar, Payload: in.vars})
}

// NewFail records a failure and returns its type.
func (in *Interner) NewFail(info FailInfo) TypeID {
	in.fails = append(in.fails, info)
	slot, err := safecast.Conv[uint32](len(in.fails) - 1)
	if err != nil {
		panic(fmt.Errorf("fail table overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindFail, Payload: slot})
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(lenTypes)
}

func (in *Interner) appendArgs(args []TypeID) uint32 {
	in.args = append(in.args, slices.Clone(args))
	slot, err := safecast.Conv[uint32](len(in.args) - 1)
	if err != nil {
		panic(fmt.Errorf("args table overflow: %w", err))
	}
	return slot
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns the kind of id, KindInvalid when unknown.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Args returns the type arguments of a concrete type. READONLY.
func (in *Interner) Args(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindConcrete || tt.Payload == 0 {
		return nil
	}
	return in.args[tt.Payload]
}

// Fail returns the failure record behind a KindFail type.
func (in *Interner) Fail(id TypeID) (FailInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFail {
		return FailInfo{}, false
	}
	return in.fails[tt.Payload], true
}

// Len reports how many TypeIDs have been handed out, including NoTypeID.
func (in *Interner) Len() int {
	return len(in.types)
}

// VarSerial is the 1-based creation order of a variable.
func (in *Interner) VarSerial(id TypeID) uint32 {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindVar {
		return 0
	}
	return tt.Payload
}

// IsNamed reports whether id is the concrete type called name.
func (in *Interner) IsNamed(id TypeID, name string) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindConcrete && tt.Name == name
}

type typeKey struct {
	Kind Kind
	Name string
	Args string
}

func packArgs(args []TypeID) string {
	if len(args) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return sb.String()
}
