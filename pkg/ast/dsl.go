package ast

// Expression helpers.

func Atm(name string) *Atom {
	return NewAtom(Identifier(name))
}

func Var(name string) *Variable {
	return NewVariable(Identifier(name))
}

func TyVar(name string) *TypeVariable {
	return NewTypeVariable(Identifier(name))
}

func Lam(args []Expression, body Expression) *Lambda {
	return NewLambda(args, body)
}

func App(function Expression, args ...Expression) *Application {
	return NewApplication(function, args)
}

// Statement helpers.

func Clm(name string, typ Expression) *Claim {
	return NewClaim(Identifier(name), typ)
}

func Def(name string, body Expression) *Define {
	return NewDefine(Identifier(name), body)
}

func Src(statements ...Statement) *Source {
	return NewSource(statements)
}

// At attaches span [offset, offset+length) to node and returns it, which keeps
// hand-built expected trees in tests on one line.
func At[T Node](node T, offset, length int) T {
	SetSpan(node, Span{Offset: offset, Length: length})
	return node
}
