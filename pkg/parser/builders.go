package parser

import (
	"io"

	"github.com/pie-lang/pie/pkg/ast"
	"github.com/pie-lang/pie/pkg/grammar"
)

// builder walks a concrete tree and assembles the AST. The byte source is
// only consulted at leaves that carry identifier text.
type builder struct {
	text io.ReadSeeker
}

// candidate is one alternative of a choice: the kind it accepts and the
// constructor to run when the node has that kind.
type candidate[T any] struct {
	kind  grammar.Kind
	build func(grammar.Node) (T, error)
}

func alt[T any](kind grammar.Kind, build func(grammar.Node) (T, error)) candidate[T] {
	return candidate[T]{kind: kind, build: build}
}

// choice dispatches node to the first candidate whose kind matches. A
// candidate only counts as "not matching" when its kind differs; once a
// candidate is selected its errors propagate unchanged. When nothing matches
// the declared kinds are reported in declaration order.
func choice[T any](node grammar.Node, candidates ...candidate[T]) (T, error) {
	kind := grammar.Classify(node)
	for _, c := range candidates {
		if c.kind == kind {
			return c.build(node)
		}
	}
	expected := make([]string, len(candidates))
	for i, c := range candidates {
		expected[i] = c.kind.String()
	}
	var zero T
	return zero, &ChoiceError{Loc: spanOf(node), Actual: node.Kind(), Expected: expected}
}

// expect asserts that node has exactly the expected kind.
func expect(expected grammar.Kind, node grammar.Node) (ast.Span, error) {
	span := spanOf(node)
	if actual := node.Kind(); actual != expected.String() {
		return span, &MismatchError{Loc: span, Actual: actual, Expected: expected.String()}
	}
	return span, nil
}

// field returns the mandatory single child stored under name.
func field(parent grammar.Node, name string) (grammar.Node, error) {
	child := parent.ChildByFieldName(name)
	if child == nil {
		return nil, &MissingError{Loc: spanOf(parent), Token: parent.Kind(), What: name}
	}
	return child, nil
}

// rejectStray fails on the first ERROR child the grammar provider left
// behind inside an otherwise well-formed list.
func rejectStray(node grammar.Node) error {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if grammar.Classify(child) == grammar.KindError {
			return &MismatchError{Loc: spanOf(child), Actual: child.Kind(), Expected: ")"}
		}
	}
	return nil
}

func (b *builder) identifier(node grammar.Node) (ast.Identifier, error) {
	text, err := readSpan(spanOf(node), b.text)
	if err != nil {
		return "", err
	}
	return ast.Identifier(text), nil
}

func (b *builder) atom(node grammar.Node) (ast.Expression, error) {
	identNode, err := field(node, grammar.FieldIdentifier)
	if err != nil {
		return nil, err
	}
	ident, err := b.identifier(identNode)
	if err != nil {
		return nil, err
	}
	atom := ast.NewAtom(ident)
	ast.SetSpan(atom, spanOf(node))
	return atom, nil
}

func (b *builder) variable(node grammar.Node) (ast.Expression, error) {
	ident, err := b.identifier(node)
	if err != nil {
		return nil, err
	}
	v := ast.NewVariable(ident)
	ast.SetSpan(v, spanOf(node))
	return v, nil
}

func (b *builder) typeVariable(node grammar.Node) (ast.Expression, error) {
	ident, err := b.identifier(node)
	if err != nil {
		return nil, err
	}
	t := ast.NewTypeVariable(ident)
	ast.SetSpan(t, spanOf(node))
	return t, nil
}

func (b *builder) arguments(node grammar.Node) ([]ast.Expression, error) {
	children := node.ChildrenByFieldName(grammar.FieldArguments)
	args := make([]ast.Expression, 0, len(children))
	for _, child := range children {
		arg, err := b.expression(child)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func (b *builder) lambda(node grammar.Node) (ast.Expression, error) {
	args, err := b.arguments(node)
	if err != nil {
		return nil, err
	}
	bodyNode, err := field(node, grammar.FieldBody)
	if err != nil {
		return nil, err
	}
	body, err := b.expression(bodyNode)
	if err != nil {
		return nil, err
	}
	if err := rejectStray(node); err != nil {
		return nil, err
	}
	lam := ast.NewLambda(args, body)
	ast.SetSpan(lam, spanOf(node))
	return lam, nil
}

func (b *builder) application(node grammar.Node) (ast.Expression, error) {
	fnNode, err := field(node, grammar.FieldFunction)
	if err != nil {
		return nil, err
	}
	fn, err := b.expression(fnNode)
	if err != nil {
		return nil, err
	}
	args, err := b.arguments(node)
	if err != nil {
		return nil, err
	}
	if err := rejectStray(node); err != nil {
		return nil, err
	}
	app := ast.NewApplication(fn, args)
	ast.SetSpan(app, spanOf(node))
	return app, nil
}

// expression unwraps an "expression" node and dispatches on its single
// named child.
func (b *builder) expression(node grammar.Node) (ast.Expression, error) {
	span, err := expect(grammar.KindExpression, node)
	if err != nil {
		return nil, err
	}
	inner := firstNamedChild(node)
	if inner == nil {
		return nil, &MissingError{Loc: span, Token: grammar.KindExpression.String(), What: "expression body"}
	}
	return choice(inner,
		alt(grammar.KindAtom, b.atom),
		alt(grammar.KindIdentifier, b.variable),
		alt(grammar.KindTypeIdentifier, b.typeVariable),
		alt(grammar.KindLambda, b.lambda),
		alt(grammar.KindApplication, b.application),
	)
}

func (b *builder) declaration(node grammar.Node, kind grammar.Kind, exprField string) (ast.Identifier, ast.Expression, ast.Span, error) {
	span, err := expect(kind, node)
	if err != nil {
		return "", nil, span, err
	}
	identNode, err := field(node, grammar.FieldIdentifier)
	if err != nil {
		return "", nil, span, err
	}
	ident, err := b.identifier(identNode)
	if err != nil {
		return "", nil, span, err
	}
	exprNode, err := field(node, exprField)
	if err != nil {
		return "", nil, span, err
	}
	expr, err := b.expression(exprNode)
	if err != nil {
		return "", nil, span, err
	}
	if err := rejectStray(node); err != nil {
		return "", nil, span, err
	}
	return ident, expr, span, nil
}

func (b *builder) claim(node grammar.Node) (ast.Statement, error) {
	ident, typ, span, err := b.declaration(node, grammar.KindClaim, grammar.FieldType)
	if err != nil {
		return nil, err
	}
	claim := ast.NewClaim(ident, typ)
	ast.SetSpan(claim, span)
	return claim, nil
}

func (b *builder) define(node grammar.Node) (ast.Statement, error) {
	ident, body, span, err := b.declaration(node, grammar.KindDefine, grammar.FieldBody)
	if err != nil {
		return nil, err
	}
	def := ast.NewDefine(ident, body)
	ast.SetSpan(def, span)
	return def, nil
}

func (b *builder) expressionStatement(node grammar.Node) (ast.Statement, error) {
	expr, err := b.expression(node)
	if err != nil {
		return nil, err
	}
	return expr, nil
}

func (b *builder) statement(node grammar.Node) (ast.Statement, error) {
	return choice(node,
		alt(grammar.KindClaim, b.claim),
		alt(grammar.KindDefine, b.define),
		alt(grammar.KindExpression, b.expressionStatement),
	)
}

// source builds the root. The first failing statement aborts the walk.
func (b *builder) source(node grammar.Node) (*ast.Source, error) {
	span, err := expect(grammar.KindSource, node)
	if err != nil {
		return nil, err
	}
	statements := make([]ast.Statement, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || grammar.IsIgnorable(child) {
			continue
		}
		stmt, err := b.statement(child)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	src := ast.NewSource(statements)
	ast.SetSpan(src, span)
	return src, nil
}

func firstNamedChild(node grammar.Node) grammar.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && !grammar.IsIgnorable(child) {
			return child
		}
	}
	return nil
}
