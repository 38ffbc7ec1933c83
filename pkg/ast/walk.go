package ast

// Children returns the direct child nodes of node in source order.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Source:
		out := make([]Node, 0, len(n.Statements))
		for _, stmt := range n.Statements {
			out = append(out, stmt)
		}
		return out
	case *Claim:
		return nonNil(n.Type)
	case *Define:
		return nonNil(n.Body)
	case *Lambda:
		out := make([]Node, 0, len(n.Args)+1)
		for _, arg := range n.Args {
			out = append(out, arg)
		}
		return append(out, nonNil(n.Body)...)
	case *Application:
		out := nonNil(n.Function)
		for _, arg := range n.Args {
			out = append(out, arg)
		}
		return out
	default:
		return nil
	}
}

func nonNil(expr Expression) []Node {
	if expr == nil {
		return nil
	}
	return []Node{expr}
}

// Walk visits node and its descendants depth-first, left to right. Returning
// false from visit skips the node's children.
func Walk(node Node, visit func(Node) bool) {
	if node == nil || !visit(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, visit)
	}
}

// Names returns the identifiers introduced by claims and definitions, in
// source order and without duplicates.
func Names(src *Source) []Identifier {
	if src == nil {
		return nil
	}
	seen := make(map[Identifier]struct{})
	var names []Identifier
	add := func(id Identifier) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		names = append(names, id)
	}
	for _, stmt := range src.Statements {
		switch s := stmt.(type) {
		case *Claim:
			add(s.Ident)
		case *Define:
			add(s.Ident)
		}
	}
	return names
}
