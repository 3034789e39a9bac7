// Package builtins holds the trusted signatures of the builtin container
// and scalar types and of the prelude functions, and checks calls against
// them.
package builtins

import (
	"fmt"

	"duckcheck/internal/types"
)

// Family is the receiver type family a builtin method belongs to.
type Family uint8

const (
	FamilyInvalid Family = iota
	FamilyList
	FamilyTuple
	FamilyDict
	FamilySet
	FamilyStr
	FamilyInt
	FamilyFloat
	FamilyBool
	FamilyNone
	familyCount
)

var familyNames = [...]string{
	FamilyInvalid: "",
	FamilyList:    types.NameList,
	FamilyTuple:   types.NameTuple,
	FamilyDict:    types.NameDict,
	FamilySet:     types.NameSet,
	FamilyStr:     types.NameStr,
	FamilyInt:     types.NameInt,
	FamilyFloat:   types.NameFloat,
	FamilyBool:    types.NameBool,
	FamilyNone:    types.NameNone,
}

// String is the class name used in diagnostics.
func (f Family) String() string {
	if f < familyCount && f != FamilyInvalid {
		return familyNames[f]
	}
	return fmt.Sprintf("Family(%d)", f)
}

// FamilyOf maps a concrete type name to its family.
func FamilyOf(name string) (Family, bool) {
	for f := FamilyList; f < familyCount; f++ {
		if familyNames[f] == name {
			return f, true
		}
	}
	return FamilyInvalid, false
}

// Accepts reports whether a receiver of family recv may call a method
// declared on f. bool inherits the int methods.
func (f Family) Accepts(recv Family) bool {
	return f == recv || (f == FamilyInt && recv == FamilyBool)
}

// TypeClass is a structural constraint on an argument, such as "any
// iterable".
type TypeClass uint8

const (
	ClassNone TypeClass = iota
	ClassIterable
	ClassSequence
	ClassNumber
	ClassHashable
)

func (c TypeClass) String() string {
	switch c {
	case ClassIterable:
		return "iterable"
	case ClassSequence:
		return "sequence"
	case ClassNumber:
		return "number"
	case ClassHashable:
		return "hashable"
	default:
		return "object"
	}
}

// Admits reports whether values of family f belong to the class.
func (c TypeClass) Admits(f Family) bool {
	switch c {
	case ClassNone:
		return true
	case ClassIterable:
		return f == FamilyList || f == FamilyTuple || f == FamilyDict || f == FamilySet || f == FamilyStr
	case ClassSequence:
		return f == FamilyList || f == FamilyTuple || f == FamilyStr
	case ClassNumber:
		return f == FamilyInt || f == FamilyFloat || f == FamilyBool
	case ClassHashable:
		return f != FamilyList && f != FamilyDict && f != FamilySet && f != FamilyInvalid
	}
	return false
}
