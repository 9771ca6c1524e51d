package analyzer

// This is the first of the two passes over a module. It walks the syntax tree
// once, opening and finalizing scopes as it goes, and records the scope that
// every identifier in a reference position appears in. Along the way it
// extracts the module's import and export tables and registers every module
// the module refers to. The rewriting pass later consults the finalized scopes
// to tell imported names apart from local names that shadow them.

import (
	"context"
	"fmt"

	"github.com/esmpack/esmpack/internal/config"
	"github.com/esmpack/esmpack/internal/graph"
	"github.com/esmpack/esmpack/internal/helpers"
	"github.com/esmpack/esmpack/internal/js_ast"
	"github.com/esmpack/esmpack/internal/logger"
)

type Resolver interface {
	Resolve(specifier string, referrer graph.ModuleRef, onError func(*graph.ResolveError)) (graph.ModuleRef, bool)
}

// This is thrown to unwind the walk after the first fatal error. The error
// has already been logged by the time it is thrown.
type analyzePanic struct {
	err error
}

type analyzer struct {
	ctx      context.Context
	log      logger.Log
	module   *graph.Module
	ast      *js_ast.AST
	source   *logger.Source
	resolver Resolver
	policy   config.ResolvePolicy
	scopes   *js_ast.ScopeBuilder
	table    js_ast.ScopeTable

	// The number of function bodies enclosing the current node. An "await"
	// at depth zero is a top-level await.
	fnDepth int
}

// Analyze fills in the scopes, imports, exports, and module references of a
// parsed module. Resolution failures are fatal under the strict policy and
// become placeholders under the tolerant policy.
func Analyze(
	ctx context.Context,
	log logger.Log,
	module *graph.Module,
	resolver Resolver,
	policy config.ResolvePolicy,
) (err error) {
	if module.AST == nil {
		panic("Internal error: analyzing a module that wasn't parsed")
	}

	a := &analyzer{
		ctx:      ctx,
		log:      log,
		module:   module,
		ast:      module.AST,
		source:   &module.Source,
		resolver: resolver,
		policy:   policy,
		scopes:   js_ast.NewScopeBuilder(module.AST.Root, true),
	}
	a.table = js_ast.ScopeTable{
		Global: a.scopes.Global,
		ByNode: map[js_ast.Index]*js_ast.Scope{module.AST.Root: a.scopes.Global},
		Refs:   make(map[js_ast.Index]*js_ast.Scope),
	}

	defer func() {
		if r := recover(); r != nil {
			if p, ok := r.(analyzePanic); ok {
				err = p.err
				return
			}
			panic(r)
		}
	}()

	a.visitProgram()
	a.scopes.FinalizeScope()
	a.detectReexports()
	a.collectIdentifiers()

	module.Scopes = a.table
	module.AssignGeneratedNames()
	for i := range module.Exports {
		if module.Exports[i].Kind == graph.ExportDefaultExpr {
			module.Exports[i].Local = module.DefaultLocal
		}
	}
	module.State = graph.StateAnalyzed
	return nil
}

func (a *analyzer) text(n js_ast.Index) string {
	return a.ast.Text(a.source, n)
}

func (a *analyzer) fail(n js_ast.Index, reason string) {
	r := a.ast.Range(n)
	a.log.AddRangeError(a.source, r, reason)
	panic(analyzePanic{err: &graph.RewriteError{Ref: a.module.Ref, Source: a.source, Range: r, Reason: reason}})
}

func (a *analyzer) pushScope(kind js_ast.ScopeKind, n js_ast.Index) {
	a.table.ByNode[n] = a.scopes.BeginScope(kind, n)
}

func (a *analyzer) popScope() {
	a.scopes.FinalizeScope()
}

func (a *analyzer) declare(name string, kind js_ast.DeclKind) {
	if err := a.scopes.Declare(name, kind); err != nil {
		panic("Internal error: " + err.Error())
	}
}

func (a *analyzer) visitProgram() {
	for _, stmt := range a.ast.Node(a.ast.Root).Children {
		// Cancellation is checked between top-level statements so a large
		// module doesn't hold up a cancelled build
		if err := a.ctx.Err(); err != nil {
			panic(analyzePanic{err: err})
		}

		switch a.ast.Kind(stmt) {
		case js_ast.KindImportStatement:
			a.visitImport(stmt)
		case js_ast.KindExportStatement:
			a.visitExport(stmt)
		default:
			a.visit(stmt)
		}
	}
}

func (a *analyzer) visitChildren(n js_ast.Index) {
	for _, child := range a.ast.Node(n).Children {
		a.visit(child)
	}
}

func (a *analyzer) visit(n js_ast.Index) {
	ast := a.ast

	switch ast.Kind(n) {
	case js_ast.KindNone, js_ast.KindToken, js_ast.KindComment, js_ast.KindHashBangLine,
		js_ast.KindPropertyIdentifier, js_ast.KindPrivatePropertyIdentifier, js_ast.KindStatementIdentifier,
		js_ast.KindThis, js_ast.KindSuper, js_ast.KindTrue, js_ast.KindFalse, js_ast.KindNull,
		js_ast.KindUndefined, js_ast.KindNumber, js_ast.KindString, js_ast.KindRegex, js_ast.KindImport:

	case js_ast.KindIdentifier, js_ast.KindShorthandPropertyIdentifier, js_ast.KindShorthandPropertyIdentifierPattern:
		a.table.Refs[n] = a.scopes.Current()

	case js_ast.KindImportStatement, js_ast.KindExportStatement:
		a.fail(n, "Import and export declarations may only appear at the top level of a module")

	case js_ast.KindWithStatement:
		a.fail(n, "With statements cannot be used in an ECMAScript module")

	case js_ast.KindJSX:
		a.fail(n, "JSX syntax is not supported")

	case js_ast.KindError:
		a.fail(n, "Syntax error")

	case js_ast.KindUnknown:
		a.fail(n, fmt.Sprintf("Unsupported syntax %q", ast.Node(n).Token))

	case js_ast.KindStatementBlock, js_ast.KindSwitchBody:
		a.pushScope(js_ast.ScopeBlock, n)
		a.visitChildren(n)
		a.popScope()

	case js_ast.KindVariableDeclaration:
		a.visitDeclarators(n, js_ast.DeclVar)

	case js_ast.KindLexicalDeclaration:
		kind := js_ast.DeclLet
		if ast.HasToken(n, "const") {
			kind = js_ast.DeclConst
		}
		a.visitDeclarators(n, kind)

	case js_ast.KindFunctionDeclaration, js_ast.KindGeneratorFunctionDeclaration:
		if name := ast.Field(n, "name"); name != js_ast.NoIndex {
			a.declare(a.text(name), js_ast.DeclFunction)
		}
		a.visitFunction(n)

	case js_ast.KindFunctionExpression, js_ast.KindGeneratorFunction, js_ast.KindArrowFunction:
		a.visitFunction(n)

	case js_ast.KindMethodDefinition:
		a.visitMethod(n)

	case js_ast.KindClassDeclaration:
		if name := ast.Field(n, "name"); name != js_ast.NoIndex {
			a.declare(a.text(name), js_ast.DeclClass)
		}
		a.visitClass(n)

	case js_ast.KindClass:
		a.visitClass(n)

	case js_ast.KindCatchClause:
		a.pushScope(js_ast.ScopeCatch, n)
		if param := ast.Field(n, "parameter"); param != js_ast.NoIndex {
			a.declarePattern(param, js_ast.DeclCatchParameter)
		}
		a.visit(ast.Field(n, "body"))
		a.popScope()

	case js_ast.KindForStatement:
		if ast.Kind(ast.Field(n, "initializer")) == js_ast.KindLexicalDeclaration {
			a.pushScope(js_ast.ScopeForDeclarator, n)
			a.visitChildren(n)
			a.popScope()
		} else {
			a.visitChildren(n)
		}

	case js_ast.KindForInStatement:
		a.visitForIn(n)

	case js_ast.KindAwaitExpression:
		if a.fnDepth == 0 {
			a.module.HasTopLevelAwait = true
		}
		a.visitChildren(n)

	case js_ast.KindCallExpression:
		if ast.Kind(ast.Field(n, "function")) == js_ast.KindImport {
			a.visitDynamicImport(n)
			return
		}
		a.visitChildren(n)

	case js_ast.KindMetaProperty:
		if ast.HasToken(n, "import") {
			a.recordImportMeta(n)
		}

	case js_ast.KindMemberExpression:
		// Older versions of the grammar parse "import.meta" as a member access
		if ast.Kind(ast.Field(n, "object")) == js_ast.KindImport {
			a.recordImportMeta(n)
			return
		}
		a.visitChildren(n)

	default:
		a.visitChildren(n)
	}
}

func (a *analyzer) visitDeclarators(n js_ast.Index, kind js_ast.DeclKind) {
	for _, d := range a.ast.Named(n) {
		if a.ast.Kind(d) != js_ast.KindVariableDeclarator {
			a.visit(d)
			continue
		}
		a.declarePattern(a.ast.Field(d, "name"), kind)
		a.visit(a.ast.Field(d, "value"))
	}
}

// declarePattern declares every name bound by a binding pattern. Default
// values and computed keys inside the pattern are expressions and are
// visited in the current scope.
func (a *analyzer) declarePattern(n js_ast.Index, kind js_ast.DeclKind) {
	ast := a.ast

	switch ast.Kind(n) {
	case js_ast.KindNone, js_ast.KindToken, js_ast.KindComment:

	case js_ast.KindIdentifier, js_ast.KindShorthandPropertyIdentifierPattern, js_ast.KindUndefined:
		a.declare(a.text(n), kind)

	case js_ast.KindObjectPattern, js_ast.KindArrayPattern, js_ast.KindRestPattern:
		for _, child := range ast.Named(n) {
			a.declarePattern(child, kind)
		}

	case js_ast.KindPairPattern:
		if key := ast.Field(n, "key"); ast.Kind(key) == js_ast.KindComputedPropertyName {
			a.visit(key)
		}
		a.declarePattern(ast.Field(n, "value"), kind)

	case js_ast.KindAssignmentPattern, js_ast.KindObjectAssignmentPattern:
		a.declarePattern(ast.Field(n, "left"), kind)
		a.visit(ast.Field(n, "right"))

	default:
		a.fail(n, "Unsupported binding pattern")
	}
}

func (a *analyzer) visitFunction(n js_ast.Index) {
	ast := a.ast
	kind := ast.Kind(n)

	a.pushScope(js_ast.ScopeFunction, n)
	a.fnDepth++

	if kind != js_ast.KindArrowFunction {
		a.declare("arguments", js_ast.DeclArguments)
	}
	if kind == js_ast.KindFunctionExpression || kind == js_ast.KindGeneratorFunction {
		if name := ast.Field(n, "name"); name != js_ast.NoIndex {
			a.declare(a.text(name), js_ast.DeclSelfName)
		}
	}

	// Arrow functions with a single unparenthesized parameter
	if param := ast.Field(n, "parameter"); param != js_ast.NoIndex {
		a.declarePattern(param, js_ast.DeclParameter)
	}
	if params := ast.Field(n, "parameters"); params != js_ast.NoIndex {
		for _, param := range ast.Named(params) {
			a.declarePattern(param, js_ast.DeclParameter)
		}
	}

	body := ast.Field(n, "body")
	a.pushScope(js_ast.ScopeFunctionBody, body)
	if ast.Kind(body) == js_ast.KindStatementBlock {
		a.visitChildren(body)
	} else {
		a.visit(body)
	}
	a.popScope()

	a.fnDepth--
	a.popScope()
}

func (a *analyzer) visitDecorators(n js_ast.Index) {
	for _, child := range a.ast.Node(n).Children {
		if a.ast.Kind(child) == js_ast.KindDecorator {
			a.visit(child)
		}
	}
}

func (a *analyzer) visitMethod(n js_ast.Index) {
	a.visitDecorators(n)
	if name := a.ast.Field(n, "name"); a.ast.Kind(name) == js_ast.KindComputedPropertyName {
		a.visit(name)
	}
	a.visitFunction(n)
}

func (a *analyzer) visitClass(n js_ast.Index) {
	ast := a.ast
	a.visitDecorators(n)

	a.pushScope(js_ast.ScopeClass, n)
	if name := ast.Field(n, "name"); name != js_ast.NoIndex {
		a.declare(a.text(name), js_ast.DeclSelfName)
	}
	if heritage := ast.FirstNamedOfKind(n, js_ast.KindClassHeritage); heritage != js_ast.NoIndex {
		a.visitChildren(heritage)
	}

	for _, member := range ast.Named(ast.Field(n, "body")) {
		switch ast.Kind(member) {
		case js_ast.KindMethodDefinition:
			a.visitMethod(member)

		case js_ast.KindFieldDefinition:
			a.visitDecorators(member)
			if key := ast.Field(member, "property"); ast.Kind(key) == js_ast.KindComputedPropertyName {
				a.visit(key)
			}
			if value := ast.Field(member, "value"); value != js_ast.NoIndex {
				a.fnDepth++
				a.visit(value)
				a.fnDepth--
			}

		case js_ast.KindClassStaticBlock:
			body := ast.Field(member, "body")
			if body == js_ast.NoIndex {
				body = ast.FirstNamedOfKind(member, js_ast.KindStatementBlock)
			}
			a.pushScope(js_ast.ScopeClassStaticBlock, member)
			a.fnDepth++
			if body != js_ast.NoIndex {
				a.visitChildren(body)
			}
			a.fnDepth--
			a.popScope()

		default:
			a.visit(member)
		}
	}

	a.popScope()
}

func (a *analyzer) visitForIn(n js_ast.Index) {
	ast := a.ast
	left := ast.Field(n, "left")

	if ast.HasToken(n, "await") && a.fnDepth == 0 {
		a.module.HasTopLevelAwait = true
	}

	switch {
	case ast.HasToken(n, "let") || ast.HasToken(n, "const"):
		kind := js_ast.DeclLet
		if ast.HasToken(n, "const") {
			kind = js_ast.DeclConst
		}
		a.pushScope(js_ast.ScopeForDeclarator, n)
		a.declarePattern(left, kind)
		a.visit(ast.Field(n, "right"))
		a.visit(ast.Field(n, "body"))
		a.popScope()

	case ast.HasToken(n, "var"):
		a.declarePattern(left, js_ast.DeclVar)
		a.visit(ast.Field(n, "value"))
		a.visit(ast.Field(n, "right"))
		a.visit(ast.Field(n, "body"))

	default:
		a.visit(left)
		a.visit(ast.Field(n, "right"))
		a.visit(ast.Field(n, "body"))
	}
}

func (a *analyzer) visitDynamicImport(call js_ast.Index) {
	ast := a.ast
	args := ast.Field(call, "arguments")

	if ast.Kind(args) == js_ast.KindArguments {
		if named := ast.Named(args); len(named) == 1 && ast.Kind(named[0]) == js_ast.KindString {
			ref := a.resolveSpecifier(named[0])
			a.module.DynamicImports = append(a.module.DynamicImports, graph.DynamicImport{Call: call, Ref: ref})
			return
		}
	}

	a.log.AddRangeWarning(a.source, ast.Range(call),
		"This dynamic import will not be bundled because its argument is not a string literal")
	a.visit(args)
}

func (a *analyzer) recordImportMeta(n js_ast.Index) {
	a.module.ImportMetas = append(a.module.ImportMetas, n)
	a.module.UsesImportMeta = true
}

func (a *analyzer) warnAboutAttributes(n js_ast.Index) {
	if attr := a.ast.FirstNamedOfKind(n, js_ast.KindImportAttribute); attr != js_ast.NoIndex {
		a.log.AddRangeWarning(a.source, a.ast.Range(attr), "Import attributes are not supported and will be ignored")
	}
}

// resolveSpecifier resolves the string literal "n" and registers the result
// as a module reference of this module
func (a *analyzer) resolveSpecifier(n js_ast.Index) graph.ModuleRef {
	specifier, ok := helpers.DecodeStringLiteral(a.text(n))
	if !ok {
		a.fail(n, "Invalid module specifier")
	}

	var resolveErr *graph.ResolveError
	ref, ok := a.resolver.Resolve(specifier, a.module.Ref, func(err *graph.ResolveError) {
		resolveErr = err
	})
	r := a.ast.Range(n)
	if ok {
		a.module.AddModuleRef(ref, r, false)
		return ref
	}

	if resolveErr == nil {
		resolveErr = &graph.ResolveError{Specifier: specifier, Referrer: a.module.Ref, Reason: "no module was found"}
	}
	text := fmt.Sprintf("Could not resolve %q: %s", specifier, resolveErr.Reason)
	if a.policy == config.ResolveStrict {
		a.log.AddRangeError(a.source, r, text)
		panic(analyzePanic{err: resolveErr})
	}

	a.log.AddRangeWarning(a.source, r, text+" (an empty object is used instead)")
	ref = graph.ModuleRef{Namespace: graph.NamespaceUnresolved, Path: specifier}
	a.module.AddModuleRef(ref, r, true)
	return ref
}

// exportName reads an import or export name, which is either an identifier
// or a string literal
func (a *analyzer) exportName(n js_ast.Index) graph.ExportName {
	raw := a.text(n)
	if a.ast.Kind(n) != js_ast.KindString {
		return graph.IdentifierName(raw)
	}
	text, ok := helpers.DecodeStringLiteral(raw)
	if !ok {
		a.fail(n, "Invalid string literal used as a module export name")
	}
	return graph.ExportName{Text: text, Raw: raw, IsString: true}
}

func (a *analyzer) addImport(n js_ast.Index, binding graph.ImportBinding) {
	if _, ok := a.module.Imports[binding.Local]; ok {
		a.fail(n, fmt.Sprintf("The symbol %q has already been imported", binding.Local))
	}
	binding.Loc = a.ast.Loc(n)
	a.module.Imports[binding.Local] = binding
}

// Imports are not declared in the module scope. A reference that resolves
// to no scope at all and matches an import name refers to that import.
func (a *analyzer) visitImport(n js_ast.Index) {
	ast := a.ast
	a.warnAboutAttributes(n)
	ref := a.resolveSpecifier(ast.Field(n, "source"))

	clause := ast.FirstNamedOfKind(n, js_ast.KindImportClause)
	if clause == js_ast.NoIndex {
		return
	}

	for _, item := range ast.Named(clause) {
		switch ast.Kind(item) {
		case js_ast.KindIdentifier:
			a.addImport(item, graph.ImportBinding{
				Kind:     graph.ImportNamed,
				Source:   ref,
				Local:    a.text(item),
				Imported: graph.IdentifierName("default"),
			})

		case js_ast.KindNamespaceImport:
			local := ast.FirstNamedOfKind(item, js_ast.KindIdentifier)
			a.addImport(local, graph.ImportBinding{
				Kind:   graph.ImportNamespace,
				Source: ref,
				Local:  a.text(local),
			})

		case js_ast.KindNamedImports:
			for _, spec := range ast.Named(item) {
				if ast.Kind(spec) != js_ast.KindImportSpecifier {
					continue
				}
				name := ast.Field(spec, "name")
				local := name
				if alias := ast.Field(spec, "alias"); alias != js_ast.NoIndex {
					local = alias
				} else if ast.Kind(name) != js_ast.KindIdentifier {
					a.fail(name, "This import name must be renamed with \"as\" because it is not a valid identifier")
				}
				a.addImport(local, graph.ImportBinding{
					Kind:     graph.ImportNamed,
					Source:   ref,
					Local:    a.text(local),
					Imported: a.exportName(name),
				})
			}
		}
	}
}

func (a *analyzer) visitExport(n js_ast.Index) {
	ast := a.ast
	m := a.module
	loc := ast.Loc(n)
	a.warnAboutAttributes(n)
	a.visitDecorators(n)

	if source := ast.Field(n, "source"); source != js_ast.NoIndex {
		ref := a.resolveSpecifier(source)

		if clause := ast.FirstNamedOfKind(n, js_ast.KindExportClause); clause != js_ast.NoIndex {
			// export { a, b as c } from "source"
			for _, spec := range ast.Named(clause) {
				if ast.Kind(spec) != js_ast.KindExportSpecifier {
					continue
				}
				sourceName := a.exportName(ast.Field(spec, "name"))
				name := sourceName
				if alias := ast.Field(spec, "alias"); alias != js_ast.NoIndex {
					name = a.exportName(alias)
				}
				m.Exports = append(m.Exports, graph.ExportEntry{
					Kind:       graph.ExportReexport,
					Name:       name,
					Source:     ref,
					SourceName: sourceName,
					Loc:        ast.Loc(spec),
				})
			}
		} else if ns := ast.FirstNamedOfKind(n, js_ast.KindNamespaceExport); ns != js_ast.NoIndex {
			// export * as ns from "source"
			named := ast.Named(ns)
			m.Exports = append(m.Exports, graph.ExportEntry{
				Kind:   graph.ExportWildcard,
				Name:   a.exportName(named[len(named)-1]),
				Source: ref,
				Loc:    loc,
			})
		} else {
			// export * from "source"
			m.Exports = append(m.Exports, graph.ExportEntry{Kind: graph.ExportWildcard, Source: ref, Loc: loc})
		}
		return
	}

	// export { a, b as c }
	if clause := ast.FirstNamedOfKind(n, js_ast.KindExportClause); clause != js_ast.NoIndex {
		for _, spec := range ast.Named(clause) {
			if ast.Kind(spec) != js_ast.KindExportSpecifier {
				continue
			}
			nameNode := ast.Field(spec, "name")
			if ast.Kind(nameNode) != js_ast.KindIdentifier {
				a.fail(nameNode, "A string literal cannot be used as an exported binding without \"from\"")
			}
			local := a.text(nameNode)
			name := graph.IdentifierName(local)
			if alias := ast.Field(spec, "alias"); alias != js_ast.NoIndex {
				name = a.exportName(alias)
			}
			m.Exports = append(m.Exports, graph.ExportEntry{
				Kind:  graph.ExportNamed,
				Name:  name,
				Local: local,
				Loc:   ast.Loc(spec),
			})
		}
		return
	}

	decl := ast.Field(n, "declaration")

	if ast.HasToken(n, "default") {
		// export default function f() {}
		// export default class C {}
		if decl != js_ast.NoIndex && ast.Field(decl, "name") != js_ast.NoIndex {
			name := ast.Field(decl, "name")
			a.visit(decl)
			m.Exports = append(m.Exports, graph.ExportEntry{
				Kind:  graph.ExportNamed,
				Name:  graph.IdentifierName("default"),
				Local: a.text(name),
				Loc:   loc,
			})
			return
		}

		// export default <expression>
		value := ast.Field(n, "value")
		if value == js_ast.NoIndex {
			value = decl
		}
		a.visit(value)
		m.Exports = append(m.Exports, graph.ExportEntry{
			Kind: graph.ExportDefaultExpr,
			Name: graph.IdentifierName("default"),
			Loc:  loc,
		})
		return
	}

	if decl == js_ast.NoIndex {
		a.fail(n, "Unsupported export statement")
	}
	a.visit(decl)

	switch ast.Kind(decl) {
	case js_ast.KindVariableDeclaration, js_ast.KindLexicalDeclaration:
		for _, d := range ast.Named(decl) {
			if ast.Kind(d) != js_ast.KindVariableDeclarator {
				continue
			}
			for _, name := range a.boundNames(ast.Field(d, "name"), nil) {
				m.Exports = append(m.Exports, graph.ExportEntry{
					Kind:  graph.ExportNamed,
					Name:  graph.IdentifierName(name),
					Local: name,
					Loc:   ast.Loc(d),
				})
			}
		}

	default:
		name := ast.Field(decl, "name")
		if name == js_ast.NoIndex {
			a.fail(decl, "Exported declarations must have a name")
		}
		m.Exports = append(m.Exports, graph.ExportEntry{
			Kind:  graph.ExportNamed,
			Name:  graph.IdentifierName(a.text(name)),
			Local: a.text(name),
			Loc:   loc,
		})
	}
}

func (a *analyzer) boundNames(n js_ast.Index, names []string) []string {
	ast := a.ast

	switch ast.Kind(n) {
	case js_ast.KindIdentifier, js_ast.KindShorthandPropertyIdentifierPattern:
		names = append(names, a.text(n))

	case js_ast.KindObjectPattern, js_ast.KindArrayPattern, js_ast.KindRestPattern:
		for _, child := range ast.Named(n) {
			names = a.boundNames(child, names)
		}

	case js_ast.KindPairPattern:
		names = a.boundNames(ast.Field(n, "value"), names)

	case js_ast.KindAssignmentPattern, js_ast.KindObjectAssignmentPattern:
		names = a.boundNames(ast.Field(n, "left"), names)
	}

	return names
}

// An export clause that exports one of the module's own imports is turned
// into a re-export of the import's source. Later stages then never need the
// intermediate local binding.
func (a *analyzer) detectReexports() {
	m := a.module

	for i := range m.Exports {
		entry := &m.Exports[i]
		if entry.Kind != graph.ExportNamed {
			continue
		}
		local := entry.Local
		binding, ok := m.Imports[local]
		if !ok {
			continue
		}

		if binding.Kind == graph.ImportNamespace {
			*entry = graph.ExportEntry{
				Kind:   graph.ExportWildcard,
				Name:   entry.Name,
				Source: binding.Source,
				Loc:    entry.Loc,
			}
			continue
		}

		*entry = graph.ExportEntry{
			Kind:       graph.ExportReexport,
			Name:       entry.Name,
			Source:     binding.Source,
			SourceName: binding.Imported,
			Loc:        entry.Loc,
		}
		binding.Kind = graph.ImportReexportAlias
		m.Imports[local] = binding
	}
}

func (a *analyzer) collectIdentifiers() {
	for i := range a.ast.Nodes {
		switch a.ast.Nodes[i].Kind {
		case js_ast.KindIdentifier, js_ast.KindShorthandPropertyIdentifier, js_ast.KindShorthandPropertyIdentifierPattern:
			a.module.Identifiers[a.text(js_ast.Index(i))] = struct{}{}
		}
	}
}
