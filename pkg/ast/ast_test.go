package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSource() *Source {
	// (claim id (→ A A))
	// (define id (λ (x) x))
	return At(Src(
		At(Clm("id", At(App(At(Var("→"), 11, 3), At(TyVar("A"), 15, 1), At(TyVar("A"), 17, 1)), 10, 9)), 0, 20),
		At(Def("id", At(Lam([]Expression{At(Var("x"), 37, 1)}, At(Var("x"), 40, 1)), 32, 10)), 21, 22),
	), 0, 43)
}

func TestSpanHelpers(t *testing.T) {
	span := NewSpan(4, 9)
	assert.Equal(t, Span{Offset: 4, Length: 5}, span)
	assert.Equal(t, 9, span.End())
	assert.Equal(t, "4..9", span.String())
	assert.True(t, span.Contains(Span{Offset: 5, Length: 2}))
	assert.False(t, span.Contains(Span{Offset: 8, Length: 2}))
	assert.Equal(t, Span{Offset: 3}, NewSpan(3, 1))

	source := []byte("(f x)")
	assert.Equal(t, "f", Span{Offset: 1, Length: 1}.Text(source))
	assert.Equal(t, "", Span{Offset: 4, Length: 3}.Text(source))
}

func TestSetSpan(t *testing.T) {
	v := Var("x")
	assert.Equal(t, ZeroSpan(), v.Span())
	SetSpan(v, Span{Offset: 2, Length: 1})
	assert.Equal(t, Span{Offset: 2, Length: 1}, v.Span())
	SetSpan(nil, Span{Offset: 1})
}

func TestWalkVisitsInSourceOrder(t *testing.T) {
	var visited []NodeType
	Walk(sampleSource(), func(node Node) bool {
		visited = append(visited, node.NodeType())
		return true
	})
	assert.Equal(t, []NodeType{
		NodeSource,
		NodeClaim, NodeApplication, NodeVariable, NodeTypeVariable, NodeTypeVariable,
		NodeDefine, NodeLambda, NodeVariable, NodeVariable,
	}, visited)
}

func TestWalkCanSkipChildren(t *testing.T) {
	count := 0
	Walk(sampleSource(), func(node Node) bool {
		count++
		return node.NodeType() != NodeClaim
	})
	assert.Equal(t, 6, count)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []Identifier{"id"}, Names(sampleSource()))
	assert.Nil(t, Names(nil))
}

func TestDump(t *testing.T) {
	want := `Source @0..43
  Claim id @0..20
    Application /2 @10..19
      Variable → @11..14
      TypeVariable A @15..16
      TypeVariable A @17..18
  Define id @21..43
    Lambda /1 @32..42
      Variable x @37..38
      Variable x @40..41
`
	assert.Equal(t, want, Dump(sampleSource()))
	assert.Equal(t, "Atom 'nil @0..0\n", Dump(Atm("nil")))
}

func TestJSONEncoding(t *testing.T) {
	data, err := json.Marshal(At(Atm("nil"), 3, 4))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Atom","span":{"offset":3,"length":4},"ident":"nil"}`, string(data))

	data, err = json.Marshal(Lam(nil, Var("x")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Lambda","span":{"offset":0,"length":0},"args":[],"body":{"type":"Variable","span":{"offset":0,"length":0},"ident":"x"}}`, string(data))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(sampleSource(), sampleSource()))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(sampleSource(), nil))

	shifted := sampleSource()
	lam := shifted.Statements[1].(*Define).Body.(*Lambda)
	SetSpan(lam.Body, Span{Offset: 41, Length: 1})
	assert.False(t, Equal(sampleSource(), shifted), "span differs")

	renamed := sampleSource()
	renamed.Statements[0].(*Claim).Ident = "ident"
	assert.False(t, Equal(sampleSource(), renamed), "identifier differs")

	assert.False(t, Equal(Var("x"), TyVar("x")), "variant differs")
	assert.False(t, Equal(Lam([]Expression{Var("x")}, nil), Lam(nil, Var("x"))), "argument is not a body")
	assert.False(t, Equal(App(Var("f"), Var("x")), App(Var("f"))))

	// A nil argument list and an empty one describe the same lambda.
	bare := &Lambda{nodeImpl: newNodeImpl(NodeLambda), Body: Var("x")}
	assert.True(t, Equal(bare, Lam(nil, Var("x"))))
}
