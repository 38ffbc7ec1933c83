// Package cst is an in-memory concrete syntax tree satisfying grammar.Node.
package cst

import (
	"strings"

	"github.com/pie-lang/pie/pkg/grammar"
)

// Node is a mutable-while-building CST node. Once handed to a consumer it is
// treated as immutable.
type Node struct {
	kind     string
	start    uint
	end      uint
	children []*Node
	fields   []string
}

var _ grammar.Node = (*Node)(nil)

// New creates a node of kind spanning the byte range [start, end).
func New(kind string, start, end uint) *Node {
	return &Node{kind: kind, start: start, end: end}
}

// Add appends child under field (empty for an unlabeled child) and returns n.
func (n *Node) Add(field string, child *Node) *Node {
	if child == nil {
		return n
	}
	n.children = append(n.children, child)
	n.fields = append(n.fields, field)
	return n
}

// SetEnd moves the end of the node's byte range.
func (n *Node) SetEnd(end uint) *Node {
	n.end = end
	return n
}

func (n *Node) Kind() string    { return n.kind }
func (n *Node) StartByte() uint { return n.start }
func (n *Node) EndByte() uint   { return n.end }

func (n *Node) NamedChildCount() uint { return uint(len(n.children)) }

func (n *Node) NamedChild(i uint) grammar.Node {
	if i >= uint(len(n.children)) {
		return nil
	}
	return n.children[i]
}

func (n *Node) ChildByFieldName(name string) grammar.Node {
	for i, field := range n.fields {
		if field == name {
			return n.children[i]
		}
	}
	return nil
}

func (n *Node) ChildrenByFieldName(name string) []grammar.Node {
	var out []grammar.Node
	for i, field := range n.fields {
		if field == name {
			out = append(out, n.children[i])
		}
	}
	return out
}

// String renders the node as an S-expression in the style of tree-sitter's
// Node.ToSexp, e.g. (claim identifier: (identifier) type: (expression ...)).
func (n *Node) String() string {
	var b strings.Builder
	n.sexp(&b)
	return b.String()
}

func (n *Node) sexp(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.kind)
	for i, child := range n.children {
		b.WriteByte(' ')
		if n.fields[i] != "" {
			b.WriteString(n.fields[i])
			b.WriteString(": ")
		}
		child.sexp(b)
	}
	b.WriteByte(')')
}

// Tree wraps a root node.
type Tree struct {
	root *Node
}

var _ grammar.Tree = (*Tree)(nil)

func NewTree(root *Node) *Tree {
	return &Tree{root: root}
}

func (t *Tree) RootNode() grammar.Node {
	if t == nil || t.root == nil {
		return nil
	}
	return t.root
}

// Root returns the concrete root node.
func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

func (t *Tree) Close() {}
