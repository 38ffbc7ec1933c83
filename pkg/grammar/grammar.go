// Package grammar is the single place that knows the pie grammar's node-kind
// and field-name vocabulary. Concrete syntax trees from any provider are seen
// through the Node interface, and kind strings are mapped onto the closed Kind
// enumeration here so the construction engine never compares raw strings.
package grammar

// Kind is the closed set of node kinds the AST builder understands.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSource
	KindClaim
	KindDefine
	KindExpression
	KindAtom
	KindIdentifier
	KindTypeIdentifier
	KindLambda
	KindApplication
	KindComment
	KindError
)

var kindNames = [...]string{
	KindUnknown:        "",
	KindSource:         "source",
	KindClaim:          "claim",
	KindDefine:         "define",
	KindExpression:     "expression",
	KindAtom:           "atom",
	KindIdentifier:     "identifier",
	KindTypeIdentifier: "type_identifier",
	KindLambda:         "lambda",
	KindApplication:    "application",
	KindComment:        "comment",
	KindError:          "ERROR",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		if name != "" {
			m[name] = Kind(k)
		}
	}
	return m
}()

// String returns the grammar's spelling of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && k != KindUnknown {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a grammar kind string onto Kind. Strings outside the
// vocabulary map to KindUnknown.
func ParseKind(name string) Kind {
	if k, ok := kindsByName[name]; ok {
		return k
	}
	return KindUnknown
}

// Classify returns the Kind of node, or KindUnknown for nil.
func Classify(node Node) Kind {
	if node == nil {
		return KindUnknown
	}
	return ParseKind(node.Kind())
}

// Field names declared by the grammar.
const (
	FieldIdentifier = "identifier"
	FieldType       = "type"
	FieldBody       = "body"
	FieldFunction   = "function"
	FieldArguments  = "arguments"
)

// Node is the read-only view of a concrete syntax tree node that the AST
// builder relies on. Implementations must return an untyped nil from the
// child accessors when no child exists.
type Node interface {
	Kind() string
	StartByte() uint
	EndByte() uint
	NamedChildCount() uint
	NamedChild(i uint) Node
	ChildByFieldName(name string) Node
	ChildrenByFieldName(name string) []Node
}

// Tree owns a concrete syntax tree. Close releases any resources held by the
// provider; nodes must not be used afterwards.
type Tree interface {
	RootNode() Node
	Close()
}

// Provider turns source bytes into a concrete syntax tree whose root kind is
// "source".
type Provider interface {
	Parse(source []byte) (Tree, error)
	Close()
}

// IsIgnorable reports whether node carries no meaning for the AST.
func IsIgnorable(node Node) bool {
	return Classify(node) == KindComment
}
