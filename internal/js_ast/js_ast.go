package js_ast

// Every module is parsed into a flat arena of nodes. A node's index in the
// arena is its identity: scopes, references and substitutions all point back
// into the tree by index instead of holding pointers to nodes. This lets the
// analysis pass and the rewriting pass share side tables keyed by node, and
// lets modules be rewritten in parallel without any shared mutable tree.
//
// The tree is a concrete syntax tree. Anonymous tokens such as "export",
// "default" or ";" are kept as KindToken nodes so the rewriter can compute
// exact source ranges for the text it deletes.

import (
	"github.com/esmpack/esmpack/internal/logger"
)

// Index refers to a node in AST.Nodes
type Index = int32

const NoIndex Index = -1

type Node struct {
	Kind Kind

	// The grammar field this node occupies in its parent ("name", "value",
	// "body", "source", ...) or empty if it isn't in a named field
	Field string

	// The grammar symbol for KindToken nodes (i.e. the token text) and for
	// KindUnknown nodes
	Token string

	Start int32
	End   int32

	Parent   Index
	Children []Index
}

type AST struct {
	Nodes []Node
	Root  Index
}

func (ast *AST) Node(n Index) *Node {
	return &ast.Nodes[n]
}

func (ast *AST) Kind(n Index) Kind {
	if n == NoIndex {
		return KindNone
	}
	return ast.Nodes[n].Kind
}

func (ast *AST) Range(n Index) logger.Range {
	node := &ast.Nodes[n]
	return logger.Range{Loc: logger.Loc{Start: node.Start}, Len: node.End - node.Start}
}

func (ast *AST) Loc(n Index) logger.Loc {
	return logger.Loc{Start: ast.Nodes[n].Start}
}

func (ast *AST) Text(source *logger.Source, n Index) string {
	node := &ast.Nodes[n]
	return source.Contents[node.Start:node.End]
}

// Field returns the first child stored under the given grammar field, or
// NoIndex if there is none.
func (ast *AST) Field(n Index, field string) Index {
	for _, child := range ast.Nodes[n].Children {
		if ast.Nodes[child].Field == field {
			return child
		}
	}
	return NoIndex
}

// Named returns the children that are not anonymous tokens or comments
func (ast *AST) Named(n Index) []Index {
	children := ast.Nodes[n].Children
	named := make([]Index, 0, len(children))
	for _, child := range children {
		if kind := ast.Nodes[child].Kind; kind != KindToken && kind != KindComment {
			named = append(named, child)
		}
	}
	return named
}

// FirstNamedOfKind returns the first direct child with the given kind
func (ast *AST) FirstNamedOfKind(n Index, kind Kind) Index {
	for _, child := range ast.Nodes[n].Children {
		if ast.Nodes[child].Kind == kind {
			return child
		}
	}
	return NoIndex
}

// HasToken reports whether the node has a direct anonymous child for "token"
func (ast *AST) HasToken(n Index, token string) bool {
	return ast.Token(n, token) != NoIndex
}

func (ast *AST) Token(n Index, token string) Index {
	for _, child := range ast.Nodes[n].Children {
		if c := &ast.Nodes[child]; c.Kind == KindToken && c.Token == token {
			return child
		}
	}
	return NoIndex
}

// LastChild returns the last direct child that isn't a comment
func (ast *AST) LastChild(n Index) Index {
	children := ast.Nodes[n].Children
	for i := len(children) - 1; i >= 0; i-- {
		if ast.Nodes[children[i]].Kind != KindComment {
			return children[i]
		}
	}
	return NoIndex
}
