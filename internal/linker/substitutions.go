package linker

import (
	"sort"

	"github.com/esmpack/esmpack/internal/graph"
	"github.com/esmpack/esmpack/internal/js_ast"
	"github.com/esmpack/esmpack/internal/logger"
)

// Substitution replaces a range of the original source text. An empty Text
// deletes the range.
type Substitution struct {
	Range logger.Range
	Text  string
}

type substitutionCollector struct {
	module *graph.Module
	ast    *js_ast.AST
	subs   []Substitution
}

func (s *substitutionCollector) replace(start int32, end int32, text string) {
	s.subs = append(s.subs, Substitution{Range: logger.RangeBetween(start, end), Text: text})
}

func (s *substitutionCollector) remove(start int32, end int32) {
	s.replace(start, end, "")
}

// collectSubstitutions decides the text edits that turn a module body into a
// plain function body: import and export syntax is removed and every free
// reference to an import is redirected to the imported module's exports
func collectSubstitutions(m *graph.Module, subs []Substitution) []Substitution {
	s := substitutionCollector{module: m, ast: m.AST, subs: subs[:0]}

	for _, stmt := range s.ast.Node(s.ast.Root).Children {
		switch s.ast.Kind(stmt) {
		case js_ast.KindImportStatement:
			node := s.ast.Node(stmt)
			s.remove(node.Start, node.End)

		case js_ast.KindExportStatement:
			s.visitExport(stmt)
		}
	}

	for n, scope := range m.Scopes.Refs {
		s.visitReference(n, scope)
	}

	for _, dynamic := range m.DynamicImports {
		symbol, _ := m.SymbolFor(dynamic.Ref)
		node := s.ast.Node(dynamic.Call)
		s.replace(node.Start, node.End, "Promise.resolve("+symbol+")")
	}

	for _, meta := range m.ImportMetas {
		node := s.ast.Node(meta)
		s.replace(node.Start, node.End, m.ImportMetaLocal)
	}

	return s.subs
}

func (s *substitutionCollector) visitExport(stmt js_ast.Index) {
	ast := s.ast
	node := ast.Node(stmt)

	// export { a, b as c }
	// export { a } from "source"
	// export * from "source"
	if ast.Field(stmt, "source") != js_ast.NoIndex || ast.FirstNamedOfKind(stmt, js_ast.KindExportClause) != js_ast.NoIndex {
		s.remove(node.Start, node.End)
		return
	}

	// Decorators come before the "export" keyword and are kept
	start := node.Start
	if token := ast.Token(stmt, "export"); token != js_ast.NoIndex {
		start = ast.Node(token).Start
	}
	decl := ast.Field(stmt, "declaration")

	if ast.HasToken(stmt, "default") {
		// export default function f() {}
		if decl != js_ast.NoIndex && ast.Field(decl, "name") != js_ast.NoIndex {
			s.remove(start, ast.Node(decl).Start)
			return
		}

		// export default <expression>
		value := ast.Field(stmt, "value")
		if value == js_ast.NoIndex {
			value = decl
		}
		if value == js_ast.NoIndex {
			return
		}
		valueNode := ast.Node(value)
		s.replace(start, valueNode.Start, "var "+s.module.DefaultLocal+" = ")

		// An anonymous function or class declaration ends at its closing
		// brace. The parser may have joined a following line that starts
		// with "(" or "[" onto it, which must stay a separate statement.
		if decl := leadingFunctionOrClass(ast, value); decl != js_ast.NoIndex && decl != value {
			end := ast.Node(decl).End
			s.replace(end, end, ";")
		} else if !ast.HasToken(stmt, ";") {
			s.replace(valueNode.End, valueNode.End, ";")
		}
		return
	}

	// export var a = 1
	// export function f() {}
	if decl != js_ast.NoIndex {
		s.remove(start, ast.Node(decl).Start)
	}
}

// leadingFunctionOrClass returns the function or class expression that
// starts "n", following the leftmost operand down, or NoIndex if "n" doesn't
// start with one
func leadingFunctionOrClass(ast *js_ast.AST, n js_ast.Index) js_ast.Index {
	for {
		node := ast.Node(n)
		switch node.Kind {
		case js_ast.KindFunctionExpression, js_ast.KindGeneratorFunction, js_ast.KindClass:
			return n
		}
		if len(node.Children) == 0 {
			return js_ast.NoIndex
		}
		first := ast.Node(node.Children[0])
		if first.Kind == js_ast.KindToken || first.Start != node.Start {
			return js_ast.NoIndex
		}
		n = node.Children[0]
	}
}

func (s *substitutionCollector) visitReference(n js_ast.Index, scope *js_ast.Scope) {
	m := s.module
	node := s.ast.Node(n)
	name := m.Source.Contents[node.Start:node.End]

	binding, ok := m.Imports[name]
	if !ok {
		return
	}

	// Imports aren't declared in any scope, so any binding found for the
	// name is a local that shadows the import
	found, err := scope.FindIdentifier(name)
	if err != nil {
		panic("Internal error: " + err.Error())
	}
	if found != nil {
		return
	}

	symbol, _ := m.SymbolFor(binding.Source)
	text := symbol
	if binding.Kind != graph.ImportNamespace {
		text = binding.Imported.Access(symbol)
	}

	switch node.Kind {
	case js_ast.KindShorthandPropertyIdentifier, js_ast.KindShorthandPropertyIdentifierPattern:
		// The property key must survive even though the value changes
		text = name + ": " + text
	}

	s.replace(node.Start, node.End, text)
}

// sortSubstitutions orders the substitutions by position. It returns false
// along with the offending range if two of them touch the same text.
func sortSubstitutions(subs []Substitution) (logger.Range, bool) {
	sort.SliceStable(subs, func(i int, j int) bool {
		a, b := subs[i].Range, subs[j].Range
		if a.Loc.Start != b.Loc.Start {
			return a.Loc.Start < b.Loc.Start
		}
		return a.End() < b.End()
	})

	for i := 1; i < len(subs); i++ {
		if prev, next := subs[i-1].Range, subs[i].Range; prev.End() > next.Loc.Start {
			return next, false
		}
	}
	return logger.Range{}, true
}

// expandDeletedLine widens a deletion that leaves nothing but whitespace on
// its line so that the whole line goes away, newline included
func expandDeletedLine(contents string, r logger.Range) logger.Range {
	start, end := int(r.Loc.Start), int(r.End())

	lineStart := start
	for lineStart > 0 && (contents[lineStart-1] == ' ' || contents[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart > 0 && contents[lineStart-1] != '\n' && contents[lineStart-1] != '\r' {
		return r
	}

	lineEnd := end
	for lineEnd < len(contents) && (contents[lineEnd] == ' ' || contents[lineEnd] == '\t') {
		lineEnd++
	}
	switch {
	case lineEnd == len(contents):
	case contents[lineEnd] == '\n':
		lineEnd++
	case contents[lineEnd] == '\r':
		lineEnd++
		if lineEnd < len(contents) && contents[lineEnd] == '\n' {
			lineEnd++
		}
	default:
		return r
	}

	return logger.RangeBetween(int32(lineStart), int32(lineEnd))
}

// applySubstitutions edits a copy of "contents" in "buffer". The edits are
// applied from the end of the text backward so that the ranges, which are
// offsets into the original text, stay valid. Substitutions must already be
// sorted and must not overlap.
func applySubstitutions(contents string, subs []Substitution, buffer []byte) []byte {
	buffer = append(buffer[:0], contents...)

	for i := len(subs) - 1; i >= 0; i-- {
		sub := subs[i]
		r := sub.Range
		if sub.Text == "" && r.Len > 0 {
			r = expandDeletedLine(contents, r)
		}
		buffer = splice(buffer, int(r.Loc.Start), int(r.End()), sub.Text)
	}

	return buffer
}

func splice(buffer []byte, start int, end int, text string) []byte {
	oldLen := len(buffer)
	delta := len(text) - (end - start)

	if delta > 0 {
		buffer = append(buffer, make([]byte, delta)...)
		copy(buffer[end+delta:], buffer[end:oldLen])
	} else if delta < 0 {
		copy(buffer[end+delta:], buffer[end:])
		buffer = buffer[:oldLen+delta]
	}

	copy(buffer[start:], text)
	return buffer
}
