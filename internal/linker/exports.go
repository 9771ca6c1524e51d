package linker

import (
	"github.com/esmpack/esmpack/internal/graph"
)

// ExportData is one resolved export of a module
type ExportData struct {
	Name  graph.ExportName
	Entry graph.ExportEntry

	// The module whose export entry this is. For names that came in through
	// "export *" this is a module further down the graph.
	Via *graph.Module

	FromWildcard bool

	// The expression the export's getter returns. It only uses names that are
	// in scope in the exporting module's body.
	Expr string
}

// ExportDictionary is a module's export table after "export *" has been
// expanded. Names are kept in insertion order so the output is stable.
type ExportDictionary struct {
	names  []string
	byName map[string]ExportData
}

func newExportDictionary() *ExportDictionary {
	return &ExportDictionary{byName: make(map[string]ExportData)}
}

func (d *ExportDictionary) Get(name string) (ExportData, bool) {
	data, ok := d.byName[name]
	return data, ok
}

// Names returns the exported names in insertion order
func (d *ExportDictionary) Names() []string {
	names := make([]string, 0, len(d.byName))
	for _, name := range d.names {
		if _, ok := d.byName[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

func (d *ExportDictionary) Len() int {
	return len(d.byName)
}

func (d *ExportDictionary) add(data ExportData) {
	d.names = append(d.names, data.Name.Text)
	d.byName[data.Name.Text] = data
}

// exportOrigin identifies the binding an export ends up at. Two names
// with the same origin aren't ambiguous even if they arrive through
// different "export *" statements.
type exportOrigin struct {
	ref  graph.ModuleRef
	name string

	// "export * as name" exports the namespace of "ref" itself
	namespace bool
}

type exportResolution struct {
	found     bool
	ambiguous bool

	// The module whose own entry provides the name, and that entry
	module *graph.Module
	entry  graph.ExportEntry

	origin exportOrigin
}

// resolveExports computes the export table of "m". Direct entries are added
// first in source order and are never overridden. Every other name that
// some module reachable through "export *" provides is then resolved the way
// an ECMAScript host resolves it: each "export *" of "m" is searched in
// turn, and a name that two of them resolve to different bindings is
// ambiguous and left out.
func (c *linkerContext) resolveExports(m *graph.Module) *ExportDictionary {
	d := newExportDictionary()

	for _, entry := range m.Exports {
		if entry.IsBareWildcard() {
			continue
		}
		if _, ok := d.byName[entry.Name.Text]; ok {
			continue
		}
		d.add(ExportData{Name: entry.Name, Entry: entry, Via: m, Expr: c.exprForDirectEntry(m, entry)})
	}

	for _, name := range c.wildcardCandidates(m) {
		if _, ok := d.byName[name.Text]; ok {
			continue
		}

		set := map[exportOrigin]bool{{ref: m.Ref, name: name.Text}: true}
		var result exportResolution
		var symbol string
		for _, entry := range m.Exports {
			if !entry.IsBareWildcard() {
				continue
			}
			other := c.graph.Module(entry.Source)
			if other == nil {
				continue
			}
			r := c.resolveExport(other, name.Text, set)
			if r.ambiguous {
				result = r
				break
			}
			if !r.found {
				continue
			}
			if !result.found {
				result = r
				symbol, _ = m.SymbolFor(entry.Source)
			} else if result.origin != r.origin {
				result = exportResolution{ambiguous: true}
				break
			}
		}

		if result.found && !result.ambiguous {
			d.add(ExportData{
				Name:         name,
				Entry:        result.entry,
				Via:          result.module,
				FromWildcard: true,
				Expr:         name.Access(symbol),
			})
		}
	}

	return d
}

// wildcardCandidates lists, breadth first, every name exported by a module
// reachable from "m" through "export *" statements. Each module is only
// searched once. Whether a name is actually exported is decided later.
func (c *linkerContext) wildcardCandidates(m *graph.Module) []graph.ExportName {
	var names []graph.ExportName
	seen := make(map[string]bool)
	visited := map[*graph.Module]bool{m: true}
	queue := []*graph.Module{m}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, entry := range current.Exports {
			if !entry.IsBareWildcard() {
				// "export *" never re-exports a default export
				if current != m && entry.Name.Text != "default" && !seen[entry.Name.Text] {
					seen[entry.Name.Text] = true
					names = append(names, entry.Name)
				}
				continue
			}
			if other := c.graph.Module(entry.Source); other != nil && !visited[other] {
				visited[other] = true
				queue = append(queue, other)
			}
		}
	}

	return names
}

// resolveExport finds the binding that "name" refers to in "m". The set of
// (module, name) pairs already being resolved is shared by the whole search,
// so a pair that is reached again is a cycle and resolves to nothing.
func (c *linkerContext) resolveExport(m *graph.Module, name string, set map[exportOrigin]bool) exportResolution {
	key := exportOrigin{ref: m.Ref, name: name}
	if set[key] {
		return exportResolution{}
	}
	set[key] = true

	for _, entry := range m.Exports {
		if entry.IsBareWildcard() || entry.Name.Text != name {
			continue
		}
		result := exportResolution{found: true, module: m, entry: entry}

		switch entry.Kind {
		case graph.ExportReexport:
			// A re-export that can't be followed further is identified by
			// what it names
			result.origin = exportOrigin{ref: entry.Source, name: entry.SourceName.Text}
			if other := c.graph.Module(entry.Source); other != nil {
				r := c.resolveExport(other, entry.SourceName.Text, set)
				if r.ambiguous {
					return r
				}
				if r.found {
					result.origin = r.origin
				}
			}

		case graph.ExportWildcard:
			result.origin = exportOrigin{ref: entry.Source, namespace: true}

		default:
			result.origin = key
		}
		return result
	}

	if name == "default" {
		return exportResolution{}
	}

	var result exportResolution
	for _, entry := range m.Exports {
		if !entry.IsBareWildcard() {
			continue
		}
		other := c.graph.Module(entry.Source)
		if other == nil {
			continue
		}
		r := c.resolveExport(other, name, set)
		if r.ambiguous {
			return r
		}
		if !r.found {
			continue
		}
		if !result.found {
			result = r
		} else if result.origin != r.origin {
			return exportResolution{ambiguous: true}
		}
	}
	return result
}

func (c *linkerContext) exprForDirectEntry(m *graph.Module, entry graph.ExportEntry) string {
	switch entry.Kind {
	case graph.ExportReexport:
		symbol, _ := m.SymbolFor(entry.Source)
		return entry.SourceName.Access(symbol)

	case graph.ExportWildcard:
		symbol, _ := m.SymbolFor(entry.Source)
		return symbol

	default:
		return entry.Local
	}
}
