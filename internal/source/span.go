package source

import (
	"fmt"
)

// Span is a line/column range inside one file. Positions come from the
// external parser, so lines are 1-based and columns 0-based.
type Span struct {
	File    FileID
	Line    uint32
	Col     uint32
	EndLine uint32
	EndCol  uint32
}

// At builds a single-position span.
func At(file FileID, line, col uint32) Span {
	return Span{File: file, Line: line, Col: col, EndLine: line, EndCol: col}
}

func (s Span) Empty() bool {
	return s.Line == s.EndLine && s.Col == s.EndCol
}

// Start returns the opening position of the span.
func (s Span) Start() LineCol {
	return LineCol{Line: s.Line, Col: s.Col}
}

// End returns the closing position of the span.
func (s Span) End() LineCol {
	return LineCol{Line: s.EndLine, Col: s.EndCol}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d:%d-%d:%d", s.File, s.Line, s.Col, s.EndLine, s.EndCol)
}

// Before reports whether s starts strictly before other in source order.
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Line != other.Line {
		return s.Line < other.Line
	}
	return s.Col < other.Col
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Before(s) {
		s.Line, s.Col = other.Line, other.Col
	}
	if s.EndLine < other.EndLine || (s.EndLine == other.EndLine && s.EndCol < other.EndCol) {
		s.EndLine, s.EndCol = other.EndLine, other.EndCol
	}
	return s
}
