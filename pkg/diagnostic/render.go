// Package diagnostic renders parser errors against the source they came
// from: a headline, the file location, the offending line with the span
// underlined, and the help text.
package diagnostic

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/pie-lang/pie/pkg/parser"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[94m"
	ansiCyan  = "\x1b[36m"
)

// ColorMode selects when reports are colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode accepts auto, always or never; the empty string means auto.
func ParseColorMode(value string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("diagnostic: unknown color mode %q (want auto, always or never)", value)
	}
}

// Enabled resolves the mode for f. Auto colors only terminals and honours
// NO_COLOR.
func (m ColorMode) Enabled(f *os.File) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Renderer formats diagnostics.
type Renderer struct {
	Color bool
}

// NewRenderer returns a renderer with coloring set by color.
func NewRenderer(color bool) *Renderer {
	return &Renderer{Color: color}
}

func (r *Renderer) paint(code, s string) string {
	if !r.Color {
		return s
	}
	return code + s + ansiReset
}

// Render writes a report for err. Errors that carry no parser diagnostic
// are written as a single line.
func (r *Renderer) Render(w io.Writer, name string, source []byte, err error) error {
	if err == nil {
		return nil
	}
	perr, ok := parser.AsError(err)
	if !ok {
		_, werr := fmt.Fprintf(w, "%s %v\n", r.paint(ansiBold+ansiRed, "error:"), err)
		return werr
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.paint(ansiBold+ansiRed, "error:"), r.paint(ansiBold, perr.Title()))

	span := perr.Span()
	if _, isGrammar := perr.(*parser.GrammarError); !isGrammar {
		rng := RangeOf(source, span)
		lineNo := fmt.Sprintf("%d", rng.Start.Line)
		gutter := strings.Repeat(" ", len(lineNo))
		bar := r.paint(ansiBlue, "|")

		fmt.Fprintf(&b, "%s%s %s:%d:%d\n", gutter, r.paint(ansiBlue, "-->"), name, rng.Start.Line, rng.Start.Column)
		fmt.Fprintf(&b, "%s %s\n", gutter, bar)

		line, lineStart := lineAt(source, span.Offset)
		fmt.Fprintf(&b, "%s %s %s\n", r.paint(ansiBlue, lineNo), bar, line)

		pad := padding(line, span.Offset-lineStart)
		width := underlineWidth(line, span.Offset-lineStart, span.Length)
		marker := strings.Repeat("^", width)
		fmt.Fprintf(&b, "%s %s %s%s\n", gutter, bar, pad, r.paint(ansiBold+ansiRed, marker+" here"))
		fmt.Fprintf(&b, "%s %s\n", gutter, bar)
		fmt.Fprintf(&b, "%s %s %s\n", gutter, r.paint(ansiCyan, "= help:"), perr.Help())
	} else {
		fmt.Fprintf(&b, "  %s %s\n", r.paint(ansiCyan, "= help:"), perr.Help())
	}
	_, werr := io.WriteString(w, b.String())
	return werr
}

// String renders err without color.
func String(name string, source []byte, err error) string {
	var buf bytes.Buffer
	_ = NewRenderer(false).Render(&buf, name, source, err)
	return buf.String()
}

// lineAt returns the line containing offset, without its newline, and the
// offset of the line's first byte.
func lineAt(source []byte, offset int) (string, int) {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	start := bytes.LastIndexByte(source[:offset], '\n') + 1
	end := bytes.IndexByte(source[offset:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += offset
	}
	return strings.TrimRight(string(source[start:end]), "\r"), start
}

// padding reproduces the first col bytes of line as blanks, keeping tabs so
// the marker lines up.
func padding(line string, col int) string {
	col = max(col, 0)
	if col > len(line) {
		col = len(line)
	}
	var b strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// underlineWidth counts the runes of the span that fall on its first line,
// with a minimum of one so empty spans stay visible.
func underlineWidth(line string, col, length int) int {
	col = max(col, 0)
	if col > len(line) {
		col = len(line)
	}
	end := col + length
	if end > len(line) {
		end = len(line)
	}
	n := len([]rune(line[col:end]))
	if n < 1 {
		n = 1
	}
	return n
}
