package diag

import (
	"fmt"

	"duckcheck/internal/types"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Inference
	SemaInfo                 Code = 3000
	SemaUnboundName          Code = 3001
	SemaAttributeAccess      Code = 3002
	SemaSelfTypeMismatch     Code = 3003
	SemaArgumentTypeMismatch Code = 3004
	SemaUnificationConflict  Code = 3005
	SemaUnknownBuiltinMethod Code = 3006

	// IO
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOCacheError    Code = 4003

	// Project
	ProjInfo        Code = 5000
	ProjConfigError Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		SemaInfo:                 "Inference information",
		SemaUnboundName:          "Name is not defined",
		SemaAttributeAccess:      "Attribute access error",
		SemaSelfTypeMismatch:     "Method called on an object of the wrong class",
		SemaArgumentTypeMismatch: "Argument type mismatch",
		SemaUnificationConflict:  "Conflicting inferred types",
		SemaUnknownBuiltinMethod: "Unknown builtin method",
		IOLoadFileError:          "I/O load file error",
		IODecodeError:            "Malformed AST document",
		IOCacheError:             "Cache error",
		ProjInfo:                 "Project information",
		ProjConfigError:          "Invalid project configuration",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
	}
)

// FromFail maps a failure kind onto its diagnostic code.
func FromFail(kind types.FailKind) Code {
	switch kind {
	case types.FailUnboundName:
		return SemaUnboundName
	case types.FailAttributeAccess:
		return SemaAttributeAccess
	case types.FailSelfType:
		return SemaSelfTypeMismatch
	case types.FailArgumentType:
		return SemaArgumentTypeMismatch
	case types.FailUnification:
		return SemaUnificationConflict
	case types.FailUnknownMethod:
		return SemaUnknownBuiltinMethod
	}
	return UnknownCode
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
