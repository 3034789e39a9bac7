package types

import "fmt"

// FailKind classifies why a type failed.
type FailKind uint8

const (
	FailNone FailKind = iota
	FailUnboundName
	FailAttributeAccess
	FailSelfType
	FailArgumentType
	FailUnification
	FailUnknownMethod
)

func (k FailKind) String() string {
	switch k {
	case FailUnboundName:
		return "UnboundName"
	case FailAttributeAccess:
		return "AttributeAccessError"
	case FailSelfType:
		return "SelfTypeMismatch"
	case FailArgumentType:
		return "ArgumentTypeMismatch"
	case FailUnification:
		return "UnificationConflict"
	case FailUnknownMethod:
		return "UnknownBuiltinMethod"
	default:
		return fmt.Sprintf("FailKind(%d)", k)
	}
}

// Site locates the node a failure is reported against.
type Site struct {
	Node uint32 // ast.NodeID of the offending node
	Kind string // node kind as printed in messages, e.g. "Call"
	Line uint32
}

// FailInfo is the immutable payload of a KindFail type.
type FailInfo struct {
	Kind    FailKind
	Site    Site
	Message string
}

func AttributeMessage(line uint32, expr, attr string) string {
	return fmt.Sprintf("Attribute access error!\nIn the Attribute node in line %d:\nthe object \"%s\" does not have the attribute \"%s\".", line, expr, attr)
}

func SelfTypeMessage(line uint32, method, expectedClass, actual string) string {
	return fmt.Sprintf("In the Call node in line %d, when calling the method \"%s\":\n"+
		"this function expects to be called on an object of the class %s, but was called on an object of inferred type %s.",
		line, method, expectedClass, actual)
}

func ArgumentMessage(line uint32, method string, index int, expected, actual string) string {
	return fmt.Sprintf("In the Call node in line %d, when calling the method \"%s\":\n"+
		"in parameter (%d), the function was expecting an object of type %s but was given an object of type %s.",
		line, method, index, expected, actual)
}

func UnknownMethodMessage(line uint32, method, receiver string) string {
	return fmt.Sprintf("In the Call node in line %d, when calling the method \"%s\":\n"+
		"the method \"%s\" is not defined for objects of type %s.", line, method, method, receiver)
}

func UnboundNameMessage(line uint32, name string) string {
	return fmt.Sprintf("Name resolution error!\nIn the Name node in line %d:\nthe name \"%s\" is not defined.", line, name)
}

func ConflictMessage(site Site, expected, actual string) string {
	return fmt.Sprintf("In the %s node in line %d:\nexpected an object of type %s, but the inferred type is %s.",
		site.Kind, site.Line, expected, actual)
}

// ArityMessage reports a call whose argument count does not match.
func ArityMessage(line uint32, callee string, want, got int) string {
	return fmt.Sprintf("In the Call node in line %d, when calling the method \"%s\":\n"+
		"the function takes %d argument(s) but %d were given.", line, callee, want, got)
}
