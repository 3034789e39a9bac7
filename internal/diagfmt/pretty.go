package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"duckcheck/internal/diag"
	"duckcheck/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes diagnostics in bag order (call bag.Sort first):
//
//	path:line:col: ERROR SEM3005: first message line
//	  further message lines
//	   12 | source line
//	      |     ^~~~
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	var sb strings.Builder
	lines := strings.Split(d.Message, "\n")
	fmt.Fprintf(&sb, "%s: %s %s: %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		lines[0])
	for _, l := range lines[1:] {
		sb.WriteString("  ")
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	if opts.ShowSource && fs != nil {
		writeSnippet(&sb, fs, d.Primary, p)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  %s %s: %s\n", p.info.Sprint("note"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	// columns are reported 1-based, like every other tool
	return fmt.Sprintf("%s:%d:%d", formatPath(fs, span.File, mode), span.Line, span.Col+1)
}

func writeSnippet(sb *strings.Builder, fs *source.FileSet, span source.Span, p palette) {
	text := fs.LineText(span)
	if text == "" {
		return
	}
	num := fmt.Sprintf("%d", span.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(sb, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), text)
	fmt.Fprintf(sb, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), caretIndent(text, span.Col), p.caret.Sprint(underline(text, span)))
}

// caretIndent reproduces the display width of text[:col], keeping tabs so
// the caret lines up under the same terminal tab stops.
func caretIndent(text string, col uint32) string {
	if int(col) > len(text) {
		col = uint32(len(text))
	}
	var sb strings.Builder
	for _, r := range text[:col] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(text string, span source.Span) string {
	width := 1
	if span.EndLine == span.Line && span.EndCol > span.Col && int(span.EndCol) <= len(text) {
		width = max(runewidth.StringWidth(text[span.Col:span.EndCol]), 1)
	}
	return "^" + strings.Repeat("~", width-1)
}
