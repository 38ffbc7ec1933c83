package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/pie-lang/pie/pkg/ast"
	"github.com/pie-lang/pie/pkg/grammar"
)

var errSeekRange = errors.New("offset outside source")

// sourceText is the seekable byte source identifiers are recovered from.
// Unlike bytes.Reader it refuses to seek past the end of the buffer.
type sourceText struct {
	r    *bytes.Reader
	size int64
}

func newSourceText(source []byte) *sourceText {
	return &sourceText{r: bytes.NewReader(source), size: int64(len(source))}
}

func (t *sourceText) Read(p []byte) (int, error) {
	return t.r.Read(p)
}

func (t *sourceText) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = t.size - int64(t.r.Len()) + offset
	case io.SeekEnd:
		abs = t.size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 || abs > t.size {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", errSeekRange, abs, t.size)
	}
	return t.r.Seek(abs, io.SeekStart)
}

// spanOf converts the node's byte range into a span.
func spanOf(node grammar.Node) ast.Span {
	return ast.NewSpan(int(node.StartByte()), int(node.EndByte()))
}

// readSpan seeks src to the span offset and reads exactly span.Length bytes,
// which must be valid UTF-8.
func readSpan(span ast.Span, src io.ReadSeeker) (string, error) {
	if span.Offset < 0 || span.Length < 0 {
		return "", &ReadingError{Loc: span, Op: ReadSeek, Err: fmt.Errorf("%w: negative span %s", errSeekRange, span)}
	}
	if _, err := src.Seek(int64(span.Offset), io.SeekStart); err != nil {
		return "", &ReadingError{Loc: span, Op: ReadSeek, Err: err}
	}
	buf := make([]byte, span.Length)
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", &ReadingError{Loc: span, Op: ReadShort, Err: err}
	}
	if !utf8.Valid(buf) {
		return "", &EncodingError{Loc: span, Err: fmt.Errorf("%w at byte %d", ErrInvalidUTF8, span.Offset+firstInvalid(buf))}
	}
	return string(buf), nil
}

func firstInvalid(buf []byte) int {
	for i := 0; i < len(buf); {
		r, width := utf8.DecodeRune(buf[i:])
		if r == utf8.RuneError && width == 1 {
			return i
		}
		i += width
	}
	return len(buf)
}
