package parser

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/pkg/ast"
)

var exampleNames = []string{"applications", "atoms", "declarations", "lambdas"}

func loadExample(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "examples", name+".pie"))
	require.NoError(t, err)
	return string(data)
}

func mustParse(t testing.TB, source string) *ast.Source {
	t.Helper()
	src, err := Parse(source)
	require.NoError(t, err, "source:\n%s", source)
	require.NotNil(t, src)
	return src
}

func TestParseDeclarationsTree(t *testing.T) {
	source := "(claim one Nat)\n(define one (add1 zero))"

	got := mustParse(t, source)

	want := ast.At(ast.Src(
		ast.At(ast.Clm("one", ast.At(ast.TyVar("Nat"), 11, 3)), 0, 15),
		ast.At(ast.Def("one",
			ast.At(ast.App(ast.At(ast.Var("add1"), 29, 4), ast.At(ast.Var("zero"), 34, 4)), 28, 11),
		), 16, 24),
	), 0, 40)
	require.Equal(t, want, got)
}

func TestParseSingleStatementKinds(t *testing.T) {
	cases := []struct {
		name   string
		source string
		check  func(t *testing.T, stmt ast.Statement, source string)
	}{
		{
			name:   "claim",
			source: "(claim vegetable Atom)",
			check: func(t *testing.T, stmt ast.Statement, source string) {
				claim, ok := stmt.(*ast.Claim)
				require.True(t, ok, "got %T", stmt)
				assert.Equal(t, ast.Identifier("vegetable"), claim.Ident)
				typ, ok := claim.Type.(*ast.TypeVariable)
				require.True(t, ok, "got %T", claim.Type)
				assert.Equal(t, "Atom", typ.Span().Text([]byte(source)))
			},
		},
		{
			name:   "define",
			source: "(define vegetable 'celery)",
			check: func(t *testing.T, stmt ast.Statement, source string) {
				def, ok := stmt.(*ast.Define)
				require.True(t, ok, "got %T", stmt)
				assert.Equal(t, ast.Identifier("vegetable"), def.Ident)
				atom, ok := def.Body.(*ast.Atom)
				require.True(t, ok, "got %T", def.Body)
				assert.Equal(t, ast.Identifier("celery"), atom.Ident)
				assert.Equal(t, "'celery", atom.Span().Text([]byte(source)))
			},
		},
		{
			name:   "expression",
			source: "(cons 'a d)",
			check: func(t *testing.T, stmt ast.Statement, source string) {
				app, ok := stmt.(*ast.Application)
				require.True(t, ok, "got %T", stmt)
				assert.Equal(t, source, app.Span().Text([]byte(source)))
				require.Len(t, app.Args, 2)
				assert.Equal(t, "cons", app.Function.Span().Text([]byte(source)))
				assert.Equal(t, "d", app.Args[1].Span().Text([]byte(source)))
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := mustParse(t, tc.source)
			require.Len(t, src.Statements, 1)
			assert.Equal(t, tc.source, src.Statements[0].Span().Text([]byte(tc.source)))
			tc.check(t, src.Statements[0], tc.source)
		})
	}
}

func TestParseIdentifiersMatchSourceBytes(t *testing.T) {
	for _, name := range exampleNames {
		t.Run(name, func(t *testing.T) {
			source := loadExample(t, name)
			raw := []byte(source)
			src := mustParse(t, source)
			require.NotEmpty(t, src.Statements)

			ast.Walk(src, func(node ast.Node) bool {
				span := node.Span()
				require.LessOrEqual(t, span.End(), len(raw), "%s span %s", node.NodeType(), span)
				switch n := node.(type) {
				case *ast.Atom:
					assert.Equal(t, "'"+string(n.Ident), span.Text(raw))
				case *ast.Variable:
					assert.Equal(t, string(n.Ident), span.Text(raw))
				case *ast.TypeVariable:
					assert.Equal(t, string(n.Ident), span.Text(raw))
				}
				return true
			})
		})
	}
}

func TestParseMissingClaimType(t *testing.T) {
	for _, source := range []string{"claim f\n", "(claim f)"} {
		_, err := Parse(source)
		require.Error(t, err)

		var missing *MissingError
		require.ErrorAs(t, err, &missing, "source %q", source)
		assert.Equal(t, "claim", missing.Token)
		assert.Equal(t, "type", missing.What)
		assert.Equal(t, 0, missing.Loc.Offset)
	}
}

func TestParseMissingFields(t *testing.T) {
	cases := []struct {
		source string
		token  string
		what   string
	}{
		{source: "(define x)", token: "define", what: "body"},
		{source: "(define)", token: "define", what: "identifier"},
		{source: "(claim Nat)", token: "claim", what: "identifier"},
		{source: "()", token: "application", what: "function"},
		{source: "(λ (x))", token: "lambda", what: "body"},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			_, err := Parse(tc.source)
			var missing *MissingError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.token, missing.Token)
			assert.Equal(t, tc.what, missing.What)
			assert.Equal(t, tc.source, missing.Loc.Text([]byte(tc.source)))
		})
	}
}

func TestParseUnknownExpressionChildReportsChoice(t *testing.T) {
	source := `"stray literal"`
	_, err := Parse(source)

	var choiceErr *ChoiceError
	require.ErrorAs(t, err, &choiceErr)
	assert.Equal(t, "ERROR", choiceErr.Actual)
	assert.Equal(t, []string{"atom", "identifier", "type_identifier", "lambda", "application"}, choiceErr.Expected)
	assert.Equal(t, `"stray`, choiceErr.Loc.Text([]byte(source)))
	assert.Contains(t, choiceErr.Help(), "one of: `atom', `identifier', `type_identifier', `lambda', `application'")
}

func TestParseStrayCloseParenReportsStatementChoice(t *testing.T) {
	_, err := Parse("(f x))")

	var choiceErr *ChoiceError
	require.ErrorAs(t, err, &choiceErr)
	assert.Equal(t, []string{"claim", "define", "expression"}, choiceErr.Expected)
	assert.Equal(t, ast.Span{Offset: 5, Length: 1}, choiceErr.Loc)
}

func TestParseStrayItemInsideClaim(t *testing.T) {
	source := "(claim f Nat Nat)"
	_, err := Parse(source)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "ERROR", mismatch.Actual)
	assert.Equal(t, ")", mismatch.Expected)
	assert.Equal(t, ast.Span{Offset: 13, Length: 3}, mismatch.Loc)
}

func TestParseUnclosedListReportsMissingParen(t *testing.T) {
	cases := []struct {
		source string
		loc    ast.Span
	}{
		{"(claim f Nat", ast.Span{Offset: 12, Length: 0}},
		{"(f x", ast.Span{Offset: 4, Length: 0}},
		{"(λ (x) x", ast.Span{Offset: 9, Length: 0}},
		{"(define one (add1 zero)\n", ast.Span{Offset: 24, Length: 0}},
	}
	for _, tc := range cases {
		_, err := Parse(tc.source)
		var mismatch *MismatchError
		require.ErrorAs(t, err, &mismatch, "%q", tc.source)
		assert.Equal(t, ")", mismatch.Expected, "%q", tc.source)
		assert.Equal(t, "ERROR", mismatch.Actual, "%q", tc.source)
		assert.Equal(t, tc.loc, mismatch.Loc, "%q", tc.source)
	}
}

func TestParseLambdaWithoutArguments(t *testing.T) {
	src := mustParse(t, "(λ () 'constant)")
	require.Len(t, src.Statements, 1)

	lam, ok := src.Statements[0].(*ast.Lambda)
	require.True(t, ok, "got %T", src.Statements[0])
	assert.Empty(t, lam.Args)
	require.NotNil(t, lam.Body)
	assert.Equal(t, ast.NodeAtom, lam.Body.NodeType())
}

func TestParseLambdaHeads(t *testing.T) {
	for _, source := range []string{`(λ (x y) x)`, `(\ (x y) x)`} {
		src := mustParse(t, source)
		lam, ok := src.Statements[0].(*ast.Lambda)
		require.True(t, ok, "source %q got %T", source, src.Statements[0])
		require.Len(t, lam.Args, 2)
		assert.Equal(t, ast.Identifier("y"), lam.Args[1].(*ast.Variable).Ident)
	}
}

func TestParseApplicationWithoutArguments(t *testing.T) {
	src := mustParse(t, "(f)")
	app, ok := src.Statements[0].(*ast.Application)
	require.True(t, ok)
	assert.Empty(t, app.Args)
	assert.Equal(t, ast.Identifier("f"), app.Function.(*ast.Variable).Ident)
}

func TestParseSkipsComments(t *testing.T) {
	source := "; header\n(claim x Nat) ; trailing\n; between\n(define x zero)\n; footer"
	src := mustParse(t, source)
	require.Len(t, src.Statements, 2)
	assert.Equal(t, ast.NodeClaim, src.Statements[0].NodeType())
	assert.Equal(t, ast.NodeDefine, src.Statements[1].NodeType())
}

func TestParseEmptySource(t *testing.T) {
	for _, source := range []string{"", "   \n\t", "; only a comment\n"} {
		src := mustParse(t, source)
		assert.Empty(t, src.Statements)
		assert.NotNil(t, src.Statements)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	for _, name := range exampleNames {
		source := loadExample(t, name)
		first := mustParse(t, source)
		second := mustParse(t, source)
		assert.True(t, ast.Equal(first, second), name)
	}

	first := mustParse(t, "(claim one Nat)")
	shifted := mustParse(t, " (claim one Nat)")
	assert.False(t, ast.Equal(first, shifted), "only the spans differ")
}

func TestParseStatementOrderIsSourceOrder(t *testing.T) {
	src := mustParse(t, loadExample(t, "declarations"))
	var names []string
	for _, stmt := range src.Statements {
		switch s := stmt.(type) {
		case *ast.Claim:
			names = append(names, "claim "+string(s.Ident))
		case *ast.Define:
			names = append(names, "define "+string(s.Ident))
		}
	}
	assert.Equal(t, []string{
		"claim one", "define one",
		"claim two", "define two",
		"claim vegetables", "define vegetables",
	}, names)
}

func TestParseIsReentrant(t *testing.T) {
	source := loadExample(t, "lambdas")
	want := mustParse(t, source)

	p, err := New()
	require.NoError(t, err)
	defer p.Close()

	var wg sync.WaitGroup
	results := make([]*ast.Source, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.Parse(source)
		}(i)
	}
	wg.Wait()
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}

func TestClosedParserReportsGrammarError(t *testing.T) {
	p, err := New()
	require.NoError(t, err)
	p.Close()

	_, err = p.Parse("x")
	var grammarErr *GrammarError
	require.ErrorAs(t, err, &grammarErr)
}

func BenchmarkParse(b *testing.B) {
	for _, name := range exampleNames {
		source := loadExample(b, name)
		b.Run(name, func(b *testing.B) {
			p, err := New()
			if err != nil {
				b.Fatal(err)
			}
			defer p.Close()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.Parse(source); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
