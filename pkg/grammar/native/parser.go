package native

import (
	"bytes"

	"github.com/pie-lang/pie/pkg/grammar"
	"github.com/pie-lang/pie/pkg/grammar/cst"
)

// parser builds a concrete tree shaped like the one tree-sitter produces for
// the pie grammar. It recovers from every error by emitting ERROR nodes or
// leaving fields absent, so Parse always returns a tree.
type parser struct {
	src      []byte
	lex      *lexer
	tok      token
	comments []*cst.Node
}

func newParser(src []byte) *parser {
	p := &parser{src: src, lex: newLexer(src)}
	p.advance()
	return p
}

// advance moves to the next significant token, queueing any comments passed
// on the way so the enclosing node can adopt them.
func (p *parser) advance() {
	for {
		p.tok = p.lex.next()
		if p.tok.kind != tokComment {
			return
		}
		p.comments = append(p.comments, cst.New(grammar.KindComment.String(), p.tok.start, p.tok.end))
	}
}

func (p *parser) adoptComments(parent *cst.Node) {
	for _, c := range p.comments {
		parent.Add("", c)
	}
	p.comments = p.comments[:0]
}

func (p *parser) parseSource() *cst.Node {
	root := cst.New(grammar.KindSource.String(), 0, uint(len(p.src)))
	for {
		p.adoptComments(root)
		if p.tok.kind == tokEOF {
			return root
		}
		root.Add("", p.parseStatement())
		p.adoptComments(root)
	}
}

func (p *parser) parseStatement() *cst.Node {
	switch p.tok.kind {
	case tokOpen:
		if p.peekKeyword() {
			return p.parseDeclaration(true)
		}
		return p.parseExpression()
	case tokVariable:
		if isKeyword(p.tok.text) {
			return p.parseDeclaration(false)
		}
		return p.parseExpression()
	case tokClose:
		node := cst.New(grammar.KindError.String(), p.tok.start, p.tok.end)
		p.advance()
		return node
	default:
		return p.parseExpression()
	}
}

// peekKeyword reports whether the token after the current one is a
// declaration keyword, leaving the lexer where it was.
func (p *parser) peekKeyword() bool {
	saved := p.lex.pos
	defer func() { p.lex.pos = saved }()
	for {
		tok := p.lex.next()
		if tok.kind == tokComment {
			continue
		}
		return tok.kind == tokVariable && isKeyword(tok.text)
	}
}

func isKeyword(text string) bool {
	return text == grammar.KindClaim.String() || text == grammar.KindDefine.String()
}

// parseDeclaration parses (claim name type) or (define name body). When the
// opening parenthesis is missing the declaration is closed at the end of the
// keyword's line, the way tree-sitter inserts MISSING tokens.
func (p *parser) parseDeclaration(parenthesized bool) *cst.Node {
	start := p.tok.start
	if parenthesized {
		p.advance()
	}
	keyword := p.tok
	p.advance()

	kind := grammar.KindClaim
	field := grammar.FieldType
	if keyword.text == grammar.KindDefine.String() {
		kind = grammar.KindDefine
		field = grammar.FieldBody
	}
	node := cst.New(kind.String(), start, keyword.end)
	inLine := func() bool {
		if parenthesized {
			return p.tok.kind != tokClose && p.tok.kind != tokEOF
		}
		return p.tok.kind != tokEOF && p.tok.kind != tokClose &&
			!bytes.ContainsRune(p.src[keyword.end:p.tok.start], '\n')
	}

	p.adoptComments(node)
	if inLine() && p.tok.kind == tokVariable {
		node.Add(grammar.FieldIdentifier, cst.New(grammar.KindIdentifier.String(), p.tok.start, p.tok.end))
		node.SetEnd(p.tok.end)
		p.advance()
	}
	p.adoptComments(node)
	if inLine() {
		expr := p.parseExpression()
		node.Add(field, expr)
		node.SetEnd(expr.EndByte())
	}
	for inLine() {
		stray := p.parseStray()
		node.Add("", stray)
		node.SetEnd(stray.EndByte())
	}
	p.adoptComments(node)
	if parenthesized {
		p.closeList(node)
	}
	return node
}

// parseExpression wraps one expression in an "expression" node.
func (p *parser) parseExpression() *cst.Node {
	inner := p.parseExpressionBody()
	return cst.New(grammar.KindExpression.String(), inner.StartByte(), inner.EndByte()).Add("", inner)
}

func (p *parser) parseExpressionBody() *cst.Node {
	tok := p.tok
	switch tok.kind {
	case tokAtom:
		p.advance()
		// The identifier field excludes the leading quote.
		ident := cst.New(grammar.KindIdentifier.String(), tok.start+1, tok.end)
		return cst.New(grammar.KindAtom.String(), tok.start, tok.end).Add(grammar.FieldIdentifier, ident)
	case tokVariable:
		p.advance()
		return cst.New(grammar.KindIdentifier.String(), tok.start, tok.end)
	case tokType:
		p.advance()
		return cst.New(grammar.KindTypeIdentifier.String(), tok.start, tok.end)
	case tokOpen:
		p.advance()
		if p.tok.kind == tokLambda {
			return p.parseLambda(tok.start)
		}
		return p.parseApplication(tok.start)
	case tokEOF:
		// MISSING expression: a zero-width error at end of input.
		return cst.New(grammar.KindError.String(), tok.start, tok.start)
	default:
		p.advance()
		return cst.New(grammar.KindError.String(), tok.start, tok.end)
	}
}

// parseStray consumes one unexpected item inside a list and reports it as an
// ERROR node covering the item.
func (p *parser) parseStray() *cst.Node {
	if p.tok.kind == tokOpen || p.tok.kind == tokAtom || p.tok.kind == tokVariable || p.tok.kind == tokType {
		expr := p.parseExpressionBody()
		return cst.New(grammar.KindError.String(), expr.StartByte(), expr.EndByte()).Add("", expr)
	}
	tok := p.tok
	p.advance()
	return cst.New(grammar.KindError.String(), tok.start, tok.end)
}

func (p *parser) parseLambda(start uint) *cst.Node {
	node := cst.New(grammar.KindLambda.String(), start, p.tok.end)
	p.advance()
	p.adoptComments(node)
	if p.tok.kind == tokOpen {
		p.advance()
		for p.tok.kind != tokClose && p.tok.kind != tokEOF {
			p.adoptComments(node)
			node.Add(grammar.FieldArguments, p.parseExpression())
		}
		p.adoptComments(node)
		if p.tok.kind == tokClose {
			node.SetEnd(p.tok.end)
			p.advance()
		}
	}
	p.adoptComments(node)
	if p.tok.kind != tokClose && p.tok.kind != tokEOF {
		body := p.parseExpression()
		node.Add(grammar.FieldBody, body)
		node.SetEnd(body.EndByte())
	}
	for p.tok.kind != tokClose && p.tok.kind != tokEOF {
		p.adoptComments(node)
		stray := p.parseStray()
		node.Add("", stray)
		node.SetEnd(stray.EndByte())
	}
	p.adoptComments(node)
	p.closeList(node)
	return node
}

func (p *parser) parseApplication(start uint) *cst.Node {
	node := cst.New(grammar.KindApplication.String(), start, start+1)
	p.adoptComments(node)
	if p.tok.kind != tokClose && p.tok.kind != tokEOF {
		fn := p.parseExpression()
		node.Add(grammar.FieldFunction, fn)
		node.SetEnd(fn.EndByte())
	}
	for p.tok.kind != tokClose && p.tok.kind != tokEOF {
		p.adoptComments(node)
		arg := p.parseExpression()
		node.Add(grammar.FieldArguments, arg)
		node.SetEnd(arg.EndByte())
	}
	p.adoptComments(node)
	p.closeList(node)
	return node
}

// closeList consumes the closing parenthesis of node. When input ends first
// a zero-width ERROR child marks the MISSING parenthesis, the way tree-sitter
// reports it.
func (p *parser) closeList(node *cst.Node) {
	switch p.tok.kind {
	case tokClose:
		node.SetEnd(p.tok.end)
		p.advance()
	case tokEOF:
		node.Add("", cst.New(grammar.KindError.String(), p.tok.start, p.tok.start))
		node.SetEnd(p.tok.start)
	}
}
