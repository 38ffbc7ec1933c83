package native

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokAtom
	tokVariable
	tokType
	tokLambda
	tokComment
	tokError
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokOpen:
		return "("
	case tokClose:
		return ")"
	case tokAtom:
		return "atom"
	case tokVariable:
		return "identifier"
	case tokType:
		return "type_identifier"
	case tokLambda:
		return "lambda head"
	case tokComment:
		return "comment"
	default:
		return "ERROR"
	}
}

type token struct {
	kind  tokenKind
	start uint
	end   uint
	text  string
}

// lexer splits pie source into tokens. It never fails: anything it cannot
// classify becomes a tokError spanning up to the next delimiter.
type lexer struct {
	src []byte
	pos int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: src}
}

func (l *lexer) peekRune(at int) (rune, int) {
	if at >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(l.src[at:])
}

func (l *lexer) next() token {
	l.skipSpace()
	start := l.pos
	if start >= len(l.src) {
		return token{kind: tokEOF, start: uint(start), end: uint(start)}
	}
	r, width := l.peekRune(start)
	switch {
	case r == '(':
		l.pos += width
		return l.emit(tokOpen, start)
	case r == ')':
		l.pos += width
		return l.emit(tokClose, start)
	case r == ';':
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.pos++
		}
		return l.emit(tokComment, start)
	case r == '\\':
		l.pos += width
		if l.atDelimiter() {
			return l.emit(tokLambda, start)
		}
		l.skipToDelimiter()
		return l.emit(tokError, start)
	case r == '\'':
		l.pos += width
		if l.scanBody() == 0 || !l.atDelimiter() {
			l.skipToDelimiter()
			return l.emit(tokError, start)
		}
		return l.emit(tokAtom, start)
	case isTypeHead(r):
		l.pos += width
		l.scanBody()
		if !l.atDelimiter() {
			l.skipToDelimiter()
			return l.emit(tokError, start)
		}
		return l.emit(tokType, start)
	case isVariableHead(r):
		l.pos += width
		l.scanBody()
		if !l.atDelimiter() {
			l.skipToDelimiter()
			return l.emit(tokError, start)
		}
		tok := l.emit(tokVariable, start)
		if tok.text == "λ" {
			tok.kind = tokLambda
		}
		return tok
	default:
		l.pos += width
		l.skipToDelimiter()
		return l.emit(tokError, start)
	}
}

func (l *lexer) emit(kind tokenKind, start int) token {
	return token{kind: kind, start: uint(start), end: uint(l.pos), text: string(l.src[start:l.pos])}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, width := l.peekRune(l.pos)
		if r == utf8.RuneError && width == 1 {
			return
		}
		if !unicode.IsSpace(r) && r != '\f' {
			return
		}
		l.pos += width
	}
}

// scanBody consumes identifier body characters and returns how many runes it
// consumed.
func (l *lexer) scanBody() int {
	n := 0
	for l.pos < len(l.src) {
		r, width := l.peekRune(l.pos)
		if r == utf8.RuneError && width == 1 {
			return n
		}
		if !isIdentifierBody(r) {
			return n
		}
		l.pos += width
		n++
	}
	return n
}

func (l *lexer) atDelimiter() bool {
	if l.pos >= len(l.src) {
		return true
	}
	r, width := l.peekRune(l.pos)
	if r == utf8.RuneError && width == 1 {
		return false
	}
	return isDelimiter(r)
}

func (l *lexer) skipToDelimiter() {
	for l.pos < len(l.src) {
		r, width := l.peekRune(l.pos)
		if !(r == utf8.RuneError && width == 1) && isDelimiter(r) {
			return
		}
		l.pos += width
	}
}

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || r == ';' || unicode.IsSpace(r)
}

func isSymbol(r rune) bool {
	return unicode.In(r, unicode.Pc, unicode.Pd, unicode.Pf, unicode.Pi, unicode.S)
}

func isIdentifierBody(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Nd, r) || isSymbol(r)
}

func isVariableHead(r rune) bool {
	return unicode.Is(unicode.Ll, r) || isSymbol(r) || unicode.Is(unicode.Nd, r)
}

func isTypeHead(r rune) bool {
	return unicode.Is(unicode.Lu, r)
}
