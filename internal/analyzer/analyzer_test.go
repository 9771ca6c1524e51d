package analyzer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/esmpack/esmpack/internal/config"
	"github.com/esmpack/esmpack/internal/fs"
	"github.com/esmpack/esmpack/internal/graph"
	"github.com/esmpack/esmpack/internal/js_ast"
	"github.com/esmpack/esmpack/internal/js_parser"
	"github.com/esmpack/esmpack/internal/logger"
	"github.com/esmpack/esmpack/internal/resolver"
	"github.com/esmpack/esmpack/internal/test"
)

var entryRef = graph.ModuleRef{Namespace: graph.NamespaceFile, Path: "/src/entry.js"}

func fileRef(path string) graph.ModuleRef {
	return graph.ModuleRef{Namespace: graph.NamespaceFile, Path: path}
}

func analyzeWithPolicy(t *testing.T, ctx context.Context, contents string, policy config.ResolvePolicy) (*graph.Module, []logger.Msg, error) {
	t.Helper()
	log := logger.NewDeferLog()
	source := test.SourceForTest(contents)
	ast, err := js_parser.Parse(context.Background(), log, source)
	if err != nil {
		t.Fatal(err)
	}
	m := graph.NewModule(entryRef, source)
	m.AST = ast
	res := resolver.NewResolver(fs.MockFS(nil, "/"), "")
	err = Analyze(ctx, log, m, res, policy)
	return m, log.Done(), err
}

func analyze(t *testing.T, contents string) (*graph.Module, []logger.Msg) {
	t.Helper()
	m, msgs, err := analyzeWithPolicy(t, context.Background(), contents, config.ResolveStrict)
	if err != nil {
		t.Fatal(err)
	}
	return m, msgs
}

// refsNamed returns the reference nodes with the given text in source order
func refsNamed(m *graph.Module, name string) []js_ast.Index {
	var refs []js_ast.Index
	for n := range m.Scopes.Refs {
		if m.AST.Text(&m.Source, n) == name {
			refs = append(refs, n)
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

func resolveRef(t *testing.T, m *graph.Module, n js_ast.Index) *js_ast.Scope {
	t.Helper()
	scope, err := m.Scopes.Refs[n].FindIdentifier(m.AST.Text(&m.Source, n))
	if err != nil {
		t.Fatal(err)
	}
	return scope
}

func TestImportBindings(t *testing.T) {
	m, msgs := analyze(t, `
import def, { a, b as c, "x y" as d } from './dep.js'
import * as ns from './other.js'
import './side.js'
import { a as again } from './dep.js'
`)
	test.AssertEqual(t, len(msgs), 0)

	test.AssertEqual(t, len(m.ModuleRefs), 3)
	test.AssertEqual(t, m.ModuleRefs[0].Ref, fileRef("/src/dep.js"))
	test.AssertEqual(t, m.ModuleRefs[1].Ref, fileRef("/src/other.js"))
	test.AssertEqual(t, m.ModuleRefs[2].Ref, fileRef("/src/side.js"))
	test.AssertEqual(t, m.ModuleRefs[0].Symbol, "__mod0")
	test.AssertEqual(t, m.ModuleRefs[2].Symbol, "__mod2")

	test.AssertEqual(t, m.Imports["def"].Kind, graph.ImportNamed)
	test.AssertEqual(t, m.Imports["def"].Imported.Text, "default")
	test.AssertEqual(t, m.Imports["a"].Imported.Text, "a")
	test.AssertEqual(t, m.Imports["c"].Imported.Text, "b")
	test.AssertEqual(t, m.Imports["d"].Imported, graph.ExportName{Text: "x y", Raw: `"x y"`, IsString: true})
	test.AssertEqual(t, m.Imports["again"].Source, fileRef("/src/dep.js"))
	test.AssertEqual(t, m.Imports["ns"].Kind, graph.ImportNamespace)
	test.AssertEqual(t, m.Imports["ns"].Source, fileRef("/src/other.js"))
	test.AssertEqual(t, m.State, graph.StateAnalyzed)
}

func TestDuplicateImport(t *testing.T) {
	_, msgs, err := analyzeWithPolicy(t, context.Background(), `
import { a } from './a.js'
import { b as a } from './b.js'
`, config.ResolveStrict)
	var rewriteErr *graph.RewriteError
	test.AssertEqual(t, errors.As(err, &rewriteErr), true)
	test.AssertEqual(t, msgs[0].Text, `The symbol "a" has already been imported`)
}

func TestExportEntries(t *testing.T) {
	m, _ := analyze(t, `
export var v = 1, { w } = o
export function f() {}
export class C {}
let x
export { x as y, x as "z z" }
export default 1 + 2
export * from './a.js'
export * as ns from './b.js'
export { q as r, s } from './c.js'
`)

	type expected struct {
		kind   graph.ExportKind
		name   string
		local  string
		source string
	}
	expect := []expected{
		{graph.ExportNamed, "v", "v", ""},
		{graph.ExportNamed, "w", "w", ""},
		{graph.ExportNamed, "f", "f", ""},
		{graph.ExportNamed, "C", "C", ""},
		{graph.ExportNamed, "y", "x", ""},
		{graph.ExportNamed, "z z", "x", ""},
		{graph.ExportDefaultExpr, "default", "__default", ""},
		{graph.ExportWildcard, "", "", "/src/a.js"},
		{graph.ExportWildcard, "ns", "", "/src/b.js"},
		{graph.ExportReexport, "r", "", "/src/c.js"},
		{graph.ExportReexport, "s", "", "/src/c.js"},
	}

	test.AssertEqual(t, len(m.Exports), len(expect))
	for i, e := range expect {
		entry := m.Exports[i]
		test.AssertEqual(t, entry.Kind, e.kind)
		test.AssertEqual(t, entry.Name.Text, e.name)
		test.AssertEqual(t, entry.Local, e.local)
		test.AssertEqual(t, entry.Source.Path, e.source)
	}
	test.AssertEqual(t, m.Exports[5].Name.Raw, `"z z"`)
	test.AssertEqual(t, m.Exports[7].IsBareWildcard(), true)
	test.AssertEqual(t, m.Exports[8].IsBareWildcard(), false)
	test.AssertEqual(t, m.Exports[9].SourceName.Text, "q")
}

func TestExportDefaultDeclarations(t *testing.T) {
	m, _ := analyze(t, `export default function main() { return main }`)
	test.AssertEqual(t, len(m.Exports), 1)
	test.AssertEqual(t, m.Exports[0].Kind, graph.ExportNamed)
	test.AssertEqual(t, m.Exports[0].Name.Text, "default")
	test.AssertEqual(t, m.Exports[0].Local, "main")

	m, _ = analyze(t, `export default class {}`)
	test.AssertEqual(t, m.Exports[0].Kind, graph.ExportDefaultExpr)
	test.AssertEqual(t, m.Exports[0].Local, m.DefaultLocal)
}

func TestManualReexport(t *testing.T) {
	m, _ := analyze(t, `
import { a } from './a.js'
import * as ns from './b.js'
export { a as b, ns }
`)
	test.AssertEqual(t, len(m.Exports), 2)

	test.AssertEqual(t, m.Exports[0].Kind, graph.ExportReexport)
	test.AssertEqual(t, m.Exports[0].Name.Text, "b")
	test.AssertEqual(t, m.Exports[0].Source, fileRef("/src/a.js"))
	test.AssertEqual(t, m.Exports[0].SourceName.Text, "a")
	test.AssertEqual(t, m.Imports["a"].Kind, graph.ImportReexportAlias)

	test.AssertEqual(t, m.Exports[1].Kind, graph.ExportWildcard)
	test.AssertEqual(t, m.Exports[1].Name.Text, "ns")
	test.AssertEqual(t, m.Exports[1].Source, fileRef("/src/b.js"))
	test.AssertEqual(t, m.Imports["ns"].Kind, graph.ImportNamespace)

	// Only the two real bindings are recorded
	test.AssertEqual(t, len(m.Imports), 2)
	_, ok := m.Imports[""]
	test.AssertEqual(t, ok, false)
}

func TestDynamicImport(t *testing.T) {
	m, msgs := analyze(t, `
import('./lazy.js').then(x => x)
import(name)
`)
	test.AssertEqual(t, len(m.DynamicImports), 1)
	test.AssertEqual(t, m.DynamicImports[0].Ref, fileRef("/src/lazy.js"))
	test.AssertEqual(t, len(m.ModuleRefs), 1)

	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Warning)
	test.AssertEqual(t, msgs[0].Location.Line, 3)

	// The argument of the unbundled import is still scanned for references
	test.AssertEqual(t, len(refsNamed(m, "name")), 1)
}

func TestImportMeta(t *testing.T) {
	m, _ := analyze(t, `console.log(import.meta.url, import.meta)`)
	test.AssertEqual(t, m.UsesImportMeta, true)
	test.AssertEqual(t, len(m.ImportMetas), 2)

	m, _ = analyze(t, `function f() { return new.target }`)
	test.AssertEqual(t, m.UsesImportMeta, false)
}

func TestTopLevelAwait(t *testing.T) {
	expect := func(contents string, async bool) {
		t.Helper()
		m, _ := analyze(t, contents)
		test.AssertEqual(t, m.HasTopLevelAwait, async)
	}

	expect(`await x`, true)
	expect(`if (a) { const y = await x }`, true)
	expect(`for await (const a of b) {}`, true)
	expect(`async function f() { await x }`, false)
	expect(`const f = async () => await x`, false)
	expect(`class C { static { } }`, false)
	expect(`for (const a of b) {}`, false)
}

func TestUnsupportedSyntax(t *testing.T) {
	expectError := func(contents string, text string) {
		t.Helper()
		_, msgs, err := analyzeWithPolicy(t, context.Background(), contents, config.ResolveStrict)
		var rewriteErr *graph.RewriteError
		if !errors.As(err, &rewriteErr) {
			t.Fatalf("Expected a rewrite error, got %v", err)
		}
		test.AssertEqual(t, rewriteErr.Reason, text)
		test.AssertEqual(t, rewriteErr.Ref, entryRef)
		test.AssertEqual(t, len(msgs), 1)
		test.AssertEqual(t, msgs[0].Kind, logger.Error)
	}

	expectError("with (a) { b }", "With statements cannot be used in an ECMAScript module")
	expectError("{ import x from './a.js' }", "Import and export declarations may only appear at the top level of a module")
	expectError("function f() { export { f } }", "Import and export declarations may only appear at the top level of a module")
	expectError("const x = <div />", "JSX syntax is not supported")
	expectError("let a; export { 'a' }", "A string literal cannot be used as an exported binding without \"from\"")
}

func TestResolvePolicy(t *testing.T) {
	_, msgs, err := analyzeWithPolicy(t, context.Background(), `import React from 'react'`, config.ResolveStrict)
	var resolveErr *graph.ResolveError
	test.AssertEqual(t, errors.As(err, &resolveErr), true)
	test.AssertEqual(t, resolveErr.Specifier, "react")
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Error)

	m, msgs, err := analyzeWithPolicy(t, context.Background(), `import React from 'react'; React.render()`, config.ResolveTolerant)
	if err != nil {
		t.Fatal(err)
	}
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Warning)
	test.AssertEqual(t, strings.Contains(msgs[0].Text, "an empty object is used instead"), true)
	test.AssertEqual(t, m.ModuleRefs[0].Placeholder, true)
	test.AssertEqual(t, m.ModuleRefs[0].Ref.Namespace, graph.NamespaceUnresolved)
	test.AssertEqual(t, m.Imports["React"].Source, m.ModuleRefs[0].Ref)
}

func TestImportAttributesWarn(t *testing.T) {
	m, msgs := analyze(t, `import data from './data.js' with { type: 'json' }`)
	test.AssertEqual(t, len(msgs), 1)
	test.AssertEqual(t, msgs[0].Kind, logger.Warning)
	test.AssertEqual(t, msgs[0].Text, "Import attributes are not supported and will be ignored")
	test.AssertEqual(t, m.Imports["data"].Source, fileRef("/src/data.js"))
}

func TestShadowedReferences(t *testing.T) {
	m, _ := analyze(t, `
import { a } from './a.js'
a()
function f(a) { return a }
{ let a = 1; a++ }
try {} catch (a) { a }
const g = () => ({ a })
class C { a = a; m() { const { a } = this; return a } }
`)

	var free int
	for _, n := range refsNamed(m, "a") {
		if resolveRef(t, m, n) == nil {
			free++
		}
	}

	// "a()", the shorthand property, and the field initializer
	test.AssertEqual(t, free, 3)
}

func TestDefaultParameterScope(t *testing.T) {
	m, _ := analyze(t, `
let foo
function f(a = foo) { { var foo = {}; } return foo }
`)

	refs := refsNamed(m, "foo")
	test.AssertEqual(t, len(refs), 2)

	// The default value sees the module level binding
	test.AssertEqual(t, resolveRef(t, m, refs[0]), m.Scopes.Global)

	// The body sees the hoisted "var"
	body := resolveRef(t, m, refs[1])
	test.AssertEqual(t, body.Kind, js_ast.ScopeFunctionBody)
}

func TestForDeclaratorScopes(t *testing.T) {
	m, _ := analyze(t, `
import { i } from './i.js'
for (let i = 0; i < 10; i++) { i }
for (const i of list) { i }
for (i in obj) {}
i
`)

	var free int
	for _, n := range refsNamed(m, "i") {
		if resolveRef(t, m, n) == nil {
			free++
		}
	}
	test.AssertEqual(t, free, 2)
}

func TestGeneratedNamesAvoidCollisions(t *testing.T) {
	m, _ := analyze(t, `
import { a } from './a.js'
let __mod0, __default, __import_meta
export default a
`)
	test.AssertEqual(t, m.ModuleRefs[0].Symbol, "___mod0")
	test.AssertEqual(t, m.DefaultLocal, "___default")
	test.AssertEqual(t, m.ImportMetaLocal, "___import_meta")
	test.AssertEqual(t, m.Exports[0].Local, "___default")
	test.AssertEqual(t, m.FinalizeLocal, "__esmpack_finalize")
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := analyzeWithPolicy(t, ctx, `import './a.js'`, config.ResolveStrict)
	test.AssertEqual(t, errors.Is(err, context.Canceled), true)
}
