package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"typedid/internal/diag"
	"typedid/internal/source"
)

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Location, затем заметки.
// Цвет включается опцией. Порядок входа сохраняется.
func Pretty(w io.Writer, diags []diag.Diagnostic, src Sources, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	for i := range n {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, diags[i], src, opts, pal)
	}
	if n < len(diags) {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", len(diags)-n)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, src Sources, opts PrettyOpts, pal palette) {
	loc := d.Location
	where := formatPath(loc.Path, opts.PathMode, opts.BaseDir)
	if !loc.Start.IsZero() {
		where = fmt.Sprintf("%s:%d:%d", where, loc.Start.Line, loc.Start.Col)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprint(where),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message,
	)

	if src != nil && loc.Start.Line > 0 {
		if t, found := src.Text(loc.Path); found {
			printContext(w, t, loc, opts.Context, pal)
		}
	}

	if opts.ShowNotes {
		for _, p := range d.Properties {
			fmt.Fprintf(w, "  %s %s=%s\n", pal.note.Sprint("note:"), p.Key, p.Value)
		}
	}
}

func printContext(w io.Writer, t *source.Text, loc source.Location, ctxLines int8, pal palette) {
	first := loc.Start.Line
	last := loc.Start.Line
	if ctxLines > 0 {
		c := uint32(ctxLines)
		if first > c {
			first -= c
		} else {
			first = 1
		}
		last += c
	}
	width := len(fmt.Sprint(last))
	for ln := first; ln <= last; ln++ {
		line := t.Line(ln)
		if ln != loc.Start.Line && line == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, ln), line)
		if ln == loc.Start.Line {
			pad, span := caretGeometry(line, loc)
			fmt.Fprintf(w, "%s %s%s\n",
				pal.gutter.Sprintf("%*s |", width, ""),
				pad,
				pal.caret.Sprint("^"+strings.Repeat("~", span-1)),
			)
		}
	}
}

// caretGeometry returns the padding before the underline and its width in
// cells. Columns are 1-based byte offsets. Tabs in the prefix are kept so the
// caret lines up with the printed source line.
func caretGeometry(line string, loc source.Location) (string, int) {
	startCol := int(loc.Start.Col)
	if startCol < 1 {
		startCol = 1
	}
	if startCol > len(line)+1 {
		startCol = len(line) + 1
	}
	endCol := len(line) + 1
	if loc.End.Line == loc.Start.Line && loc.End.Col > loc.Start.Col {
		endCol = min(int(loc.End.Col), len(line)+1)
	}
	var pad strings.Builder
	for _, r := range line[:startCol-1] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	span := runewidth.StringWidth(line[startCol-1 : endCol-1])
	if span < 1 {
		span = 1
	}
	return pad.String(), span
}
