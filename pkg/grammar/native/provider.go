// Package native is the default grammar provider: a pure-Go concrete parser
// for the pie surface syntax producing the same node kinds and field names as
// the tree-sitter grammar.
package native

import (
	"github.com/tliron/commonlog"

	"github.com/pie-lang/pie/pkg/grammar"
	"github.com/pie-lang/pie/pkg/grammar/cst"
)

var log = commonlog.GetLogger("pie.grammar.native")

// Provider implements grammar.Provider. It holds no state and is safe for
// concurrent use.
type Provider struct{}

var _ grammar.Provider = (*Provider)(nil)

// New returns the native grammar provider.
func New() *Provider {
	return &Provider{}
}

// Parse builds the concrete tree for source. It never fails.
func (p *Provider) Parse(source []byte) (grammar.Tree, error) {
	return Parse(source), nil
}

func (p *Provider) Close() {}

// Parse builds the concrete tree for source.
func Parse(source []byte) *cst.Tree {
	root := newParser(source).parseSource()
	log.Debugf("built concrete tree with %d top-level nodes for %d bytes", root.NamedChildCount(), len(source))
	return cst.NewTree(root)
}
