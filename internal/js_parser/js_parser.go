package js_parser

// This wraps the tree-sitter JavaScript grammar. The concrete syntax tree it
// produces lives in C memory and must not outlive the call, so it is copied
// into a js_ast.AST arena and released before returning. The rest of the
// bundler only ever sees the arena.

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/esmpack/esmpack/internal/js_ast"
	"github.com/esmpack/esmpack/internal/logger"
)

// SyntaxError is returned for malformed source text. It has already been
// reported to the log when it is returned.
type SyntaxError struct {
	Source *logger.Source
	Range  logger.Range
	Text   string
}

func (e *SyntaxError) Error() string {
	if loc := logger.LocationOrNil(e.Source, e.Range); loc != nil {
		return fmt.Sprintf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column, e.Text)
	}
	return e.Text
}

func Parse(ctx context.Context, log logger.Log, source logger.Source) (*js_ast.AST, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, []byte(source.Contents))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("parsing %s: %w", source.PrettyPath, err)
	}
	defer tree.Close()

	p := converter{source: &source}
	p.convert(tree.RootNode())

	if p.syntaxErr != nil {
		log.AddRangeError(&source, p.syntaxErr.Range, p.syntaxErr.Text)
		return nil, p.syntaxErr
	}
	return &p.ast, nil
}

type converter struct {
	source    *logger.Source
	ast       js_ast.AST
	syntaxErr *SyntaxError
}

func (p *converter) add(node *sitter.Node, field string, parent js_ast.Index) js_ast.Index {
	index := js_ast.Index(len(p.ast.Nodes))
	n := js_ast.Node{
		Field:  field,
		Start:  int32(node.StartByte()),
		End:    int32(node.EndByte()),
		Parent: parent,
	}

	switch {
	case node.IsMissing():
		n.Kind = js_ast.KindError
		p.reportSyntaxError(n.Start, n.End, fmt.Sprintf("Expected %q", node.Type()))
	case !node.IsNamed():
		n.Kind = js_ast.KindToken
		n.Token = node.Type()
	default:
		n.Kind = js_ast.KindForSymbol(node.Type())
		if n.Kind == js_ast.KindUnknown {
			n.Token = node.Type()
		} else if n.Kind == js_ast.KindError {
			p.reportSyntaxError(n.Start, n.End, p.unexpected(n.Start, n.End))
		}
	}

	p.ast.Nodes = append(p.ast.Nodes, n)
	if parent != js_ast.NoIndex {
		p.ast.Nodes[parent].Children = append(p.ast.Nodes[parent].Children, index)
	}
	return index
}

// The walk uses a cursor instead of recursion since deeply nested
// expressions would otherwise grow the Go stack with each level.
func (p *converter) convert(root *sitter.Node) {
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()

	p.ast.Root = p.add(cursor.CurrentNode(), "", js_ast.NoIndex)
	parents := []js_ast.Index{}
	current := p.ast.Root

	for {
		if cursor.GoToFirstChild() {
			parents = append(parents, current)
			current = p.add(cursor.CurrentNode(), cursor.CurrentFieldName(), current)
			continue
		}
		for !cursor.GoToNextSibling() {
			if !cursor.GoToParent() || len(parents) == 0 {
				return
			}
			current = parents[len(parents)-1]
			parents = parents[:len(parents)-1]
		}
		current = p.add(cursor.CurrentNode(), cursor.CurrentFieldName(), parents[len(parents)-1])
	}
}

// Only the first error is kept. Later ones are usually a consequence of it.
func (p *converter) reportSyntaxError(start int32, end int32, text string) {
	if p.syntaxErr == nil {
		p.syntaxErr = &SyntaxError{Source: p.source, Range: logger.RangeBetween(start, end), Text: text}
	}
}

func (p *converter) unexpected(start int32, end int32) string {
	text := strings.TrimSpace(p.source.Contents[start:end])
	if newline := strings.IndexAny(text, "\r\n"); newline != -1 {
		text = text[:newline]
	}
	if len(text) > 20 {
		text = text[:20] + "..."
	}
	if text == "" {
		return "Unexpected end of file"
	}
	return fmt.Sprintf("Unexpected %q", text)
}
