package types

import (
	"strconv"
	"strings"
)

// Resolver maps a type to its current representative. The solver
// implements it; nil means "render as is".
type Resolver interface {
	Shallow(id TypeID) TypeID
}

const maxRenderDepth = 32

// Render prints id in the typing-module notation used by diagnostics:
// int, List[int], Dict[str, int], Callable[[int], str].
func (in *Interner) Render(id TypeID, r Resolver) string {
	var sb strings.Builder
	in.render(&sb, id, r, 0)
	return sb.String()
}

func (in *Interner) render(sb *strings.Builder, id TypeID, r Resolver, depth int) {
	if r != nil {
		id = r.Shallow(id)
	}
	tt, ok := in.Lookup(id)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	if depth > maxRenderDepth {
		sb.WriteString("...")
		return
	}
	switch tt.Kind {
	case KindVar:
		sb.WriteString("~T")
		sb.WriteString(strconv.FormatUint(uint64(tt.Payload), 10))
	case KindForward:
		sb.WriteString(tt.Name)
	case KindFail:
		sb.WriteString("TypeFail")
	case KindConcrete:
		args := in.Args(id)
		sb.WriteString(tt.Name)
		switch {
		case tt.Name == NameCallable && len(args) > 0:
			sb.WriteString("[[")
			in.renderList(sb, args[:len(args)-1], r, depth)
			sb.WriteString("], ")
			in.render(sb, args[len(args)-1], r, depth+1)
			sb.WriteByte(']')
		case tt.Name == NameTuple && len(args) == 0:
			sb.WriteString("[()]")
		case len(args) > 0:
			sb.WriteByte('[')
			in.renderList(sb, args, r, depth)
			sb.WriteByte(']')
		}
	default:
		sb.WriteString(tt.Kind.String())
	}
}

func (in *Interner) renderList(sb *strings.Builder, ids []TypeID, r Resolver, depth int) {
	for i, a := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		in.render(sb, a, r, depth+1)
	}
}
