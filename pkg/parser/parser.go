// Package parser converts pie concrete syntax trees into span-annotated ASTs.
//
// The grammar provider recognises tokens and produces the concrete tree; this
// package validates every node against the kinds the grammar promises,
// recovers identifier text from the source bytes, and reports the first
// structural deviation as a single Error.
package parser

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/pie-lang/pie/pkg/ast"
	"github.com/pie-lang/pie/pkg/grammar"
	"github.com/pie-lang/pie/pkg/grammar/native"
)

var log = commonlog.GetLogger("pie.parser")

// Parser pairs a grammar provider with the AST builder.
type Parser struct {
	provider grammar.Provider
}

// Option configures a Parser.
type Option func(*options)

type options struct {
	provider grammar.Provider
	load     func() (grammar.Provider, error)
}

// WithProvider uses an already constructed grammar provider. The Parser takes
// ownership and closes it on Close.
func WithProvider(provider grammar.Provider) Option {
	return func(o *options) {
		o.provider = provider
		o.load = nil
	}
}

// WithGrammar constructs the provider lazily in New; a failure surfaces as a
// GrammarError.
func WithGrammar(load func() (grammar.Provider, error)) Option {
	return func(o *options) {
		o.load = load
		o.provider = nil
	}
}

// New constructs a parser. Without options it uses the native provider.
func New(opts ...Option) (*Parser, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.load != nil:
		provider, err := o.load()
		if err != nil {
			return nil, &GrammarError{Err: err}
		}
		if provider == nil {
			return nil, &GrammarError{Err: errors.New("grammar provider unavailable")}
		}
		o.provider = provider
	case o.provider == nil:
		o.provider = native.New()
	}
	return &Parser{provider: o.provider}, nil
}

// Close releases the grammar provider.
func (p *Parser) Close() {
	if p == nil || p.provider == nil {
		return
	}
	p.provider.Close()
	p.provider = nil
}

// Parse parses source text into an AST.
func (p *Parser) Parse(text string) (*ast.Source, error) {
	return p.ParseBytes([]byte(text))
}

// ParseBytes parses source into an AST. The slice is read but not retained.
func (p *Parser) ParseBytes(source []byte) (*ast.Source, error) {
	if p == nil || p.provider == nil {
		return nil, &GrammarError{Err: errors.New("parser closed")}
	}
	tree, err := p.provider.Parse(source)
	if err != nil {
		return nil, &GrammarError{Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, &GrammarError{Err: fmt.Errorf("no root node for %d bytes of input", len(source))}
	}
	src, err := Build(root, source)
	if err != nil {
		log.Debugf("parse failed: %v", err)
		return nil, err
	}
	log.Debugf("parsed %d statements from %d bytes", len(src.Statements), len(source))
	return src, nil
}

// Build runs the AST builder over a concrete tree produced for source by any
// grammar provider.
func Build(root grammar.Node, source []byte) (*ast.Source, error) {
	b := &builder{text: newSourceText(source)}
	return b.source(root)
}

// Parse parses text with the native grammar provider.
func Parse(text string) (*ast.Source, error) {
	p, err := New()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(text)
}
