package ast

// Equal reports whether a and b are structurally identical: the same variant
// at every position, the same identifiers and the same spans.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.NodeType() != b.NodeType() || a.Span() != b.Span() {
		return false
	}
	switch x := a.(type) {
	case *Source:
		y, ok := b.(*Source)
		if !ok || len(x.Statements) != len(y.Statements) {
			return false
		}
		for i := range x.Statements {
			if !Equal(x.Statements[i], y.Statements[i]) {
				return false
			}
		}
		return true
	case *Claim:
		y, ok := b.(*Claim)
		return ok && x.Ident == y.Ident && equalExpr(x.Type, y.Type)
	case *Define:
		y, ok := b.(*Define)
		return ok && x.Ident == y.Ident && equalExpr(x.Body, y.Body)
	case *Atom:
		y, ok := b.(*Atom)
		return ok && x.Ident == y.Ident
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Ident == y.Ident
	case *TypeVariable:
		y, ok := b.(*TypeVariable)
		return ok && x.Ident == y.Ident
	case *Lambda:
		y, ok := b.(*Lambda)
		return ok && equalExprs(x.Args, y.Args) && equalExpr(x.Body, y.Body)
	case *Application:
		y, ok := b.(*Application)
		return ok && equalExpr(x.Function, y.Function) && equalExprs(x.Args, y.Args)
	default:
		return false
	}
}

func equalExpr(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Equal(a, b)
}

func equalExprs(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}
