// Package driver holds what the command-line tools share around the parser:
// configuration, state paths, reading sources from disk or git history,
// output formats and file watching.
package driver

import (
	"github.com/pie-lang/pie/pkg/ast"
	"github.com/pie-lang/pie/pkg/parser"
)

// Result is one parse of a named source.
type Result struct {
	Name   string
	Source []byte
	AST    *ast.Source
	Err    error
}

// ParseFile reads path (at rev when set) and parses it with p. Read failures
// are returned as the error; parse failures are recorded in Result.Err.
func ParseFile(p *parser.Parser, path, rev string) (*Result, error) {
	source, err := ReadSource(path, rev)
	if err != nil {
		return nil, err
	}
	tree, perr := p.ParseBytes(source)
	if perr != nil {
		log.Debugf("%s: %v", path, perr)
	} else {
		log.Debugf("%s: %d statements", path, len(tree.Statements))
	}
	return &Result{Name: path, Source: source, AST: tree, Err: perr}, nil
}
