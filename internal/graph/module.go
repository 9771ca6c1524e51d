package graph

// The types in this file carry data from the scan phase (loading, parsing and
// analyzing every reachable module) to the link phase (export resolution,
// rewriting and output assembly). A Module is written only by the goroutine
// that scans it and is read-only once the scan phase hands the graph over.

import (
	"fmt"
	"strings"

	"github.com/esmpack/esmpack/internal/js_ast"
	"github.com/esmpack/esmpack/internal/logger"
)

const (
	NamespaceFile   = "file"
	NamespaceInline = "inline"

	// Specifiers that failed to resolve under the tolerant policy. These are
	// never loaded.
	NamespaceUnresolved = "unresolved"
)

// ModuleRef is the canonical identity of a module. It is comparable and is
// used directly as a map key. Two specifiers that resolve to the same file
// with the same query and fragment produce equal references.
type ModuleRef struct {
	Namespace string
	Path      string

	// The "?query#fragment" suffix of the specifier, verbatim. It is part of
	// the identity but is not used when reading the file.
	Suffix string
}

func (ref ModuleRef) String() string {
	if ref.Namespace == NamespaceFile {
		return ref.Path + ref.Suffix
	}
	return ref.Namespace + ":" + ref.Path + ref.Suffix
}

func (ref ModuleRef) IsFile() bool {
	return ref.Namespace == NamespaceFile
}

// URL is the value exposed through "import.meta.url"
func (ref ModuleRef) URL() string {
	if !ref.IsFile() {
		return ref.Namespace + ":" + ref.Path + ref.Suffix
	}
	path := strings.ReplaceAll(ref.Path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "file://" + path + ref.Suffix
}

type ModuleState uint8

const (
	StateCreated ModuleState = iota
	StateLoaded
	StateParsed
	StateAnalyzed
	StateRewritten
)

// ExportName is the name under which a binding is exported or imported.
// Names written as string literals keep their raw source text, escapes and
// quotes included, since that text is emitted verbatim as an object key.
type ExportName struct {
	Text     string
	Raw      string
	IsString bool
}

func IdentifierName(text string) ExportName {
	return ExportName{Text: text, Raw: text}
}

// Key renders the name as a property key in an object literal
func (name ExportName) Key() string {
	return name.Raw
}

// Access renders a property access of this name on "object"
func (name ExportName) Access(object string) string {
	if name.IsString {
		return object + "[" + name.Raw + "]"
	}
	return object + "." + name.Raw
}

type ImportKind uint8

const (
	// import { imported as local } from "source"
	// import local from "source"
	ImportNamed ImportKind = iota

	// import * as local from "source"
	ImportNamespace

	// A named import that the module also re-exports from an export clause.
	// References still go through the source module, and the export table
	// points at the source instead of at the local binding.
	ImportReexportAlias
)

type ImportBinding struct {
	Kind     ImportKind
	Source   ModuleRef
	Local    string
	Imported ExportName
	Loc      logger.Loc
}

type ExportKind uint8

const (
	// export { local as name }, export var name, export function name() {}
	ExportNamed ExportKind = iota

	// export default <expression>, bound to a synthesized local
	ExportDefaultExpr

	// export { sourceName as name } from "source"
	ExportReexport

	// export * from "source", or export * as name from "source"
	ExportWildcard
)

type ExportEntry struct {
	Kind ExportKind

	// Empty for a bare "export * from"
	Name ExportName

	Local      string
	Source     ModuleRef
	SourceName ExportName
	Loc        logger.Loc
}

func (entry ExportEntry) IsBareWildcard() bool {
	return entry.Kind == ExportWildcard && entry.Name.Text == "" && !entry.Name.IsString
}

// ModuleRefSymbol is the generated local that holds the exports object of a
// referenced module inside the referring module's wrapper
type ModuleRefSymbol struct {
	Ref    ModuleRef
	Symbol string

	// The specifier that first mentioned the module, for error messages
	Range logger.Range

	// Set when the specifier could not be resolved under the tolerant policy.
	// The symbol is bound to an empty object instead of a required module.
	Placeholder bool
}

// DynamicImport is an "import('literal')" call that gets rewritten into a
// resolved promise of the referenced module's exports
type DynamicImport struct {
	Call js_ast.Index
	Ref  ModuleRef
}

type Module struct {
	Ref    ModuleRef
	Source logger.Source
	State  ModuleState

	AST    *js_ast.AST
	Scopes js_ast.ScopeTable

	Imports map[string]ImportBinding
	Exports []ExportEntry

	// In first-discovery order. The symbol of entry i is derived from i.
	ModuleRefs []ModuleRefSymbol
	refIndex   map[ModuleRef]int

	DynamicImports []DynamicImport
	ImportMetas    []js_ast.Index

	UsesImportMeta   bool
	HasTopLevelAwait bool

	// Every identifier text that appears in the module. Generated names are
	// chosen so they never collide with any of these.
	Identifiers map[string]struct{}

	// Generated names, assigned once analysis has seen every identifier
	DefaultLocal    string
	ImportMetaLocal string
	FinalizeLocal   string

	// The rewritten module body, set by the link phase
	Rewritten string
}

func NewModule(ref ModuleRef, source logger.Source) *Module {
	return &Module{
		Ref:         ref,
		Source:      source,
		Imports:     make(map[string]ImportBinding),
		refIndex:    make(map[ModuleRef]int),
		Identifiers: make(map[string]struct{}),
	}
}

// AddModuleRef returns the position of "ref" in ModuleRefs, registering it
// if this is the first time the module mentions it
func (m *Module) AddModuleRef(ref ModuleRef, r logger.Range, placeholder bool) int {
	if i, ok := m.refIndex[ref]; ok {
		return i
	}
	i := len(m.ModuleRefs)
	m.refIndex[ref] = i
	m.ModuleRefs = append(m.ModuleRefs, ModuleRefSymbol{Ref: ref, Range: r, Placeholder: placeholder})
	return i
}

// SymbolFor returns the generated local bound to the exports of "ref"
func (m *Module) SymbolFor(ref ModuleRef) (string, bool) {
	i, ok := m.refIndex[ref]
	if !ok {
		return "", false
	}
	return m.ModuleRefs[i].Symbol, true
}

// AssignGeneratedNames picks the names of every generated local. It must run
// after the module's identifiers have all been collected.
func (m *Module) AssignGeneratedNames() {
	taken := make(map[string]struct{}, len(m.ModuleRefs)+3)
	pick := func(base string) string {
		name := base
		for {
			_, inModule := m.Identifiers[name]
			_, inUse := taken[name]
			if !inModule && !inUse {
				break
			}
			name = "_" + name
		}
		taken[name] = struct{}{}
		return name
	}

	for i := range m.ModuleRefs {
		m.ModuleRefs[i].Symbol = pick(fmt.Sprintf("__mod%d", i))
	}
	m.DefaultLocal = pick("__default")
	m.ImportMetaLocal = pick("__import_meta")
	m.FinalizeLocal = pick("__esmpack_finalize")
}
