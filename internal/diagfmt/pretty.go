package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"javamaybe/internal/diag"
	"javamaybe/internal/source"
)

const tabWidth = 4

type palette struct {
	sev  map[diag.Severity]*color.Color
	loc  *color.Color
	code *color.Color
	gut  *color.Color
	mark *color.Color
	note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		loc:  color.New(color.Bold),
		code: color.New(color.FgMagenta),
		gut:  color.New(color.FgBlue),
		mark: color.New(color.FgGreen, color.Bold),
		note: color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.loc, p.code, p.gut, p.mark, p.note} {
		toggle(c, enabled)
	}
	for _, c := range p.sev {
		toggle(c, enabled)
	}
	return p
}

// toggle overrides the package-wide NoColor detection so output is stable for files and tests.
func toggle(c *color.Color, enabled bool) {
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if d.Severity < opts.MinSeverity {
			continue
		}
		loc := location(fs, d.Primary, opts.PathMode)
		sev := p.sev[d.Severity]
		if sev == nil {
			sev = p.loc
		}
		fmt.Fprintf(w, "%s %s %s: %s\n",
			p.loc.Sprint(loc+":"),
			sev.Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		snippet(w, fs, d.Primary, p, opts.Width)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", dropped)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil {
		return "<unknown>"
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}

// snippet печатает строку исходника и подчёркивание.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, p palette, width uint8) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	prefix := displayWidth(line[:col])
	marked := max(displayWidth(line[col:max(stop, col)]), 1)

	shown := expandTabs(line)
	if width > 0 && runewidth.StringWidth(shown) > int(width) {
		shown = runewidth.Truncate(shown, int(width), "...")
	}
	num := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", p.gut.Sprint(num), p.gut.Sprint("|"), shown)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gut.Sprint("|"), strings.Repeat(" ", prefix),
		p.mark.Sprint("^"+strings.Repeat("~", marked-1)))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
