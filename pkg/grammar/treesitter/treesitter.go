// Package treesitter adapts github.com/tree-sitter/go-tree-sitter trees to the
// grammar.Node contract. Callers supply the compiled pie language, typically
// from the grammar's Go binding:
//
//	provider, err := treesitter.New(sitter.NewLanguage(tree_sitter_pie.Language()))
package treesitter

import (
	"errors"
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/pie-lang/pie/pkg/grammar"
)

// ErrNoLanguage is returned by New when no language is supplied.
var ErrNoLanguage = errors.New("treesitter: pie language not available")

// Provider wraps a tree-sitter parser configured for the pie grammar. A
// tree-sitter parser is not safe for concurrent use, so Parse serialises
// callers.
type Provider struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

var _ grammar.Provider = (*Provider)(nil)

// New constructs a provider with lang loaded.
func New(lang *sitter.Language) (*Provider, error) {
	if lang == nil {
		return nil, ErrNoLanguage
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("treesitter: %w", err)
	}
	return &Provider{parser: p}, nil
}

// Loader returns a constructor for parser.WithGrammar.
func Loader(lang *sitter.Language) func() (grammar.Provider, error) {
	return func() (grammar.Provider, error) {
		p, err := New(lang)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Close releases parser resources.
func (p *Provider) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.parser.Close()
	p.parser = nil
}

// Parse runs tree-sitter over source.
func (p *Provider) Parse(source []byte) (grammar.Tree, error) {
	if p == nil {
		return nil, fmt.Errorf("treesitter: nil provider")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.parser == nil {
		return nil, fmt.Errorf("treesitter: provider closed")
	}
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("treesitter: parse returned no tree")
	}
	return &Tree{tree: tree}, nil
}

// Tree owns a tree-sitter tree.
type Tree struct {
	tree *sitter.Tree
}

func (t *Tree) RootNode() grammar.Node {
	if t == nil || t.tree == nil {
		return nil
	}
	return wrap(t.tree.RootNode())
}

func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
	t.tree = nil
}

// Node adapts *sitter.Node.
type Node struct {
	node *sitter.Node
}

var _ grammar.Node = Node{}

// wrap returns an untyped nil for a nil node so callers can compare against nil.
func wrap(node *sitter.Node) grammar.Node {
	if node == nil {
		return nil
	}
	return Node{node: node}
}

// Kind reports ERROR and MISSING nodes under the grammar's ERROR kind so the
// builder treats them as mismatches.
func (n Node) Kind() string {
	if n.node.IsError() || n.node.IsMissing() {
		return grammar.KindError.String()
	}
	return n.node.Kind()
}

func (n Node) StartByte() uint       { return n.node.StartByte() }
func (n Node) EndByte() uint         { return n.node.EndByte() }
func (n Node) NamedChildCount() uint { return n.node.NamedChildCount() }

func (n Node) NamedChild(i uint) grammar.Node {
	return wrap(n.node.NamedChild(i))
}

func (n Node) ChildByFieldName(name string) grammar.Node {
	return wrap(n.node.ChildByFieldName(name))
}

func (n Node) ChildrenByFieldName(name string) []grammar.Node {
	cursor := n.node.Walk()
	defer cursor.Close()
	children := n.node.ChildrenByFieldName(name, cursor)
	out := make([]grammar.Node, 0, len(children))
	for i := range children {
		out = append(out, Node{node: &children[i]})
	}
	return out
}

// Sitter exposes the underlying tree-sitter node.
func (n Node) Sitter() *sitter.Node { return n.node }
