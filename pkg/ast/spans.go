package ast

import "fmt"

// Span locates a node by byte offset and byte length in the source buffer.
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// NewSpan builds a span from a half-open byte range.
func NewSpan(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Offset: start, Length: end - start}
}

// End returns the offset one past the last byte of the span.
func (s Span) End() int { return s.Offset + s.Length }

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return other.Offset >= s.Offset && other.End() <= s.End()
}

// Text slices the spanned bytes out of source. Out-of-range spans yield "".
func (s Span) Text(source []byte) string {
	if s.Offset < 0 || s.Length < 0 || s.End() > len(source) {
		return ""
	}
	return string(source[s.Offset:s.End()])
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Offset, s.End())
}

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// ZeroSpan returns an empty span value.
func ZeroSpan() Span {
	return Span{}
}
