package ast

import (
	"strconv"
	"strings"
)

// Format renders an expression back to source text. Diagnostics quote
// expressions in this form, so output must stay stable.
func (b *Builder) Format(id NodeID) string {
	var sb strings.Builder
	b.format(&sb, id)
	return sb.String()
}

func (b *Builder) format(sb *strings.Builder, id NodeID) {
	n := b.Get(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case KindName:
		d, _ := b.Name(id)
		sb.WriteString(b.Str(d.Name))
	case KindConst:
		d, _ := b.Const(id)
		formatConst(sb, d)
	case KindAttribute:
		d, _ := b.Attribute(id)
		b.formatOperand(sb, d.Value)
		sb.WriteByte('.')
		sb.WriteString(b.Str(d.Attr))
	case KindCall:
		d, _ := b.Call(id)
		b.formatOperand(sb, d.Func)
		sb.WriteByte('(')
		b.formatList(sb, d.Args)
		sb.WriteByte(')')
	case KindList:
		d, _ := b.Seq(id)
		sb.WriteByte('[')
		b.formatList(sb, d.Elts)
		sb.WriteByte(']')
	case KindTuple:
		d, _ := b.Seq(id)
		sb.WriteByte('(')
		b.formatList(sb, d.Elts)
		if len(d.Elts) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case KindSet:
		d, _ := b.Seq(id)
		if len(d.Elts) == 0 {
			sb.WriteString("set()")
			return
		}
		sb.WriteByte('{')
		b.formatList(sb, d.Elts)
		sb.WriteByte('}')
	case KindDict:
		d, _ := b.Dict(id)
		sb.WriteByte('{')
		for i, k := range d.Keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			b.format(sb, k)
			sb.WriteString(": ")
			if i < len(d.Values) {
				b.format(sb, d.Values[i])
			}
		}
		sb.WriteByte('}')
	case KindBinOp:
		d, _ := b.BinOp(id)
		b.formatOperand(sb, d.Left)
		sb.WriteByte(' ')
		sb.WriteString(d.Op.String())
		sb.WriteByte(' ')
		b.formatOperand(sb, d.Right)
	case KindUnaryOp:
		d, _ := b.UnaryOp(id)
		sb.WriteString(d.Op.String())
		if d.Op == OpNot {
			sb.WriteByte(' ')
		}
		b.formatOperand(sb, d.Operand)
	case KindCompare:
		d, _ := b.Compare(id)
		b.formatOperand(sb, d.Left)
		for i, op := range d.Ops {
			sb.WriteByte(' ')
			sb.WriteString(op.String())
			sb.WriteByte(' ')
			if i < len(d.Comparators) {
				b.formatOperand(sb, d.Comparators[i])
			}
		}
	case KindBoolOp:
		d, _ := b.BoolOp(id)
		for i, v := range d.Values {
			if i > 0 {
				sb.WriteByte(' ')
				sb.WriteString(d.Op.String())
				sb.WriteByte(' ')
			}
			b.formatOperand(sb, v)
		}
	case KindSubscript:
		d, _ := b.Subscript(id)
		b.formatOperand(sb, d.Value)
		sb.WriteByte('[')
		b.format(sb, d.Index)
		sb.WriteByte(']')
	default:
		// statements have no inline form
		sb.WriteString("<")
		sb.WriteString(n.Kind.String())
		sb.WriteString(">")
	}
}

func (b *Builder) formatList(sb *strings.Builder, items []NodeID) {
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		b.format(sb, it)
	}
}

// formatOperand parenthesizes compound operands so the rendered text parses back
// to the same tree.
func (b *Builder) formatOperand(sb *strings.Builder, id NodeID) {
	switch b.Kind(id) {
	case KindBinOp, KindUnaryOp, KindCompare, KindBoolOp:
		sb.WriteByte('(')
		b.format(sb, id)
		sb.WriteByte(')')
	default:
		b.format(sb, id)
	}
}

func formatConst(sb *strings.Builder, d *ConstData) {
	switch d.Kind {
	case ConstStr:
		sb.WriteString(quotePy(d.Value))
	case ConstNone:
		sb.WriteString("None")
	case ConstBool:
		if v, err := strconv.ParseBool(d.Value); err == nil && v {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	default:
		sb.WriteString(d.Value)
	}
}

// quotePy prefers single quotes the way Python's repr does.
func quotePy(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	q := strconv.Quote(s)
	inner := q[1 : len(q)-1]
	inner = strings.ReplaceAll(inner, `\"`, `"`)
	inner = strings.ReplaceAll(inner, "'", `\'`)
	return "'" + inner + "'"
}
