package diagnostic

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pie-lang/pie/pkg/ast"
)

// Position is a human-facing location. Line and Column are 1-based, Column
// counts runes; Character is the 0-based UTF-16 offset within the line that
// editors speaking LSP expect.
type Position struct {
	Line      int
	Column    int
	Character int
}

// Range is the pair of positions covered by a span.
type Range struct {
	Start Position
	End   Position
}

// PositionAt converts a byte offset into a Position. Offsets past the end of
// source are clamped to the end.
func PositionAt(source []byte, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	pos := Position{Line: 1, Column: 1}
	for i := 0; i < offset; {
		r, width := utf8.DecodeRune(source[i:])
		if i+width > offset {
			break
		}
		i += width
		if r == '\n' {
			pos.Line++
			pos.Column = 1
			pos.Character = 0
			continue
		}
		pos.Column++
		pos.Character += utf16Len(r)
	}
	return pos
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// RangeOf converts span into a Range over source.
func RangeOf(source []byte, span ast.Span) Range {
	return Range{Start: PositionAt(source, span.Offset), End: PositionAt(source, span.End())}
}
