package ast

import (
	"fmt"
	"strings"
)

// Dump renders node as an indented debug tree, one node per line, with the
// byte span of every node.
func Dump(node Node) string {
	var b strings.Builder
	dump(&b, node, 0)
	return b.String()
}

func dump(b *strings.Builder, node Node, depth int) {
	if node == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(string(node.NodeType()))
	switch n := node.(type) {
	case *Atom:
		fmt.Fprintf(b, " '%s", n.Ident)
	case *Variable:
		fmt.Fprintf(b, " %s", n.Ident)
	case *TypeVariable:
		fmt.Fprintf(b, " %s", n.Ident)
	case *Claim:
		fmt.Fprintf(b, " %s", n.Ident)
	case *Define:
		fmt.Fprintf(b, " %s", n.Ident)
	case *Lambda:
		fmt.Fprintf(b, " /%d", len(n.Args))
	case *Application:
		fmt.Fprintf(b, " /%d", len(n.Args))
	}
	fmt.Fprintf(b, " @%s\n", node.Span())
	for _, child := range Children(node) {
		dump(b, child, depth+1)
	}
}
