package ast

type NodeType string

const (
	NodeSource       NodeType = "Source"
	NodeClaim        NodeType = "Claim"
	NodeDefine       NodeType = "Define"
	NodeAtom         NodeType = "Atom"
	NodeVariable     NodeType = "Variable"
	NodeTypeVariable NodeType = "TypeVariable"
	NodeLambda       NodeType = "Lambda"
	NodeApplication  NodeType = "Application"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

// Identifier is the literal text of a name as it appears in the source.
type Identifier string

func (id Identifier) String() string { return string(id) }

type nodeImpl struct {
	Type NodeType `json:"type"`
	Loc  Span     `json:"span"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Loc }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.Loc = span }

// Marker interfaces.

// Expression is a term- or type-level expression. Every expression is also a
// valid top-level statement.
type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expressions

// Atom is a quoted symbolic literal such as 'nil.
type Atom struct {
	nodeImpl
	expressionMarker
	statementMarker

	Ident Identifier `json:"ident"`
}

func NewAtom(ident Identifier) *Atom {
	return &Atom{nodeImpl: newNodeImpl(NodeAtom), Ident: ident}
}

// Variable references a term-level name.
type Variable struct {
	nodeImpl
	expressionMarker
	statementMarker

	Ident Identifier `json:"ident"`
}

func NewVariable(ident Identifier) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Ident: ident}
}

// TypeVariable references a type-level name. It is told apart from Variable
// by lexical class only.
type TypeVariable struct {
	nodeImpl
	expressionMarker
	statementMarker

	Ident Identifier `json:"ident"`
}

func NewTypeVariable(ident Identifier) *TypeVariable {
	return &TypeVariable{nodeImpl: newNodeImpl(NodeTypeVariable), Ident: ident}
}

type Lambda struct {
	nodeImpl
	expressionMarker
	statementMarker

	Args []Expression `json:"args"`
	Body Expression   `json:"body"`
}

func NewLambda(args []Expression, body Expression) *Lambda {
	if args == nil {
		args = []Expression{}
	}
	return &Lambda{nodeImpl: newNodeImpl(NodeLambda), Args: args, Body: body}
}

type Application struct {
	nodeImpl
	expressionMarker
	statementMarker

	Function Expression   `json:"function"`
	Args     []Expression `json:"args"`
}

func NewApplication(function Expression, args []Expression) *Application {
	if args == nil {
		args = []Expression{}
	}
	return &Application{nodeImpl: newNodeImpl(NodeApplication), Function: function, Args: args}
}

// Statements

// Claim declares the type of a name ahead of its definition.
type Claim struct {
	nodeImpl
	statementMarker

	Ident Identifier `json:"ident"`
	Type  Expression `json:"claimType"`
}

func NewClaim(ident Identifier, typ Expression) *Claim {
	return &Claim{nodeImpl: newNodeImpl(NodeClaim), Ident: ident, Type: typ}
}

type Define struct {
	nodeImpl
	statementMarker

	Ident Identifier `json:"ident"`
	Body  Expression `json:"body"`
}

func NewDefine(ident Identifier, body Expression) *Define {
	return &Define{nodeImpl: newNodeImpl(NodeDefine), Ident: ident, Body: body}
}

// Source is the root of a parsed file. Statements are kept in source order.
type Source struct {
	nodeImpl

	Statements []Statement `json:"statements"`
}

func NewSource(statements []Statement) *Source {
	if statements == nil {
		statements = []Statement{}
	}
	return &Source{nodeImpl: newNodeImpl(NodeSource), Statements: statements}
}
