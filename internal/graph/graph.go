package graph

import "sort"

// Graph is the output of the scan phase. Modules are in discovery order,
// which is deterministic for roots but otherwise depends on scheduling, so
// anything that ends up in the output is ordered by other means.
type Graph struct {
	Modules []*Module
	Roots   []ModuleRef

	byRef map[ModuleRef]*Module
}

func NewGraph(modules []*Module, roots []ModuleRef) *Graph {
	g := &Graph{Modules: modules, Roots: roots, byRef: make(map[ModuleRef]*Module, len(modules))}
	for _, m := range modules {
		g.byRef[m.Ref] = m
	}
	return g
}

func (g *Graph) Module(ref ModuleRef) *Module {
	return g.byRef[ref]
}

// NeedsAsync reports whether any module uses top-level await, in which case
// every module body is run by an async loader
func (g *Graph) NeedsAsync() bool {
	for _, m := range g.Modules {
		if m.HasTopLevelAwait {
			return true
		}
	}
	return false
}

// Files returns the sorted paths of every file-backed module. Watchers and
// caches use this to know what the output depends on.
func (g *Graph) Files() []string {
	files := make([]string, 0, len(g.Modules))
	for _, m := range g.Modules {
		if m.Ref.IsFile() {
			files = append(files, m.Ref.Path)
		}
	}
	sort.Strings(files)

	// The same file may be loaded under several query suffixes
	unique := files[:0]
	for i, file := range files {
		if i == 0 || file != files[i-1] {
			unique = append(unique, file)
		}
	}
	return unique
}

// Ordered returns the modules in the order their factories are emitted:
// a depth-first walk over import order starting from each root in turn.
func (g *Graph) Ordered() []*Module {
	visited := make(map[ModuleRef]bool, len(g.Modules))
	order := make([]*Module, 0, len(g.Modules))

	var visit func(ref ModuleRef)
	visit = func(ref ModuleRef) {
		if visited[ref] {
			return
		}
		visited[ref] = true
		m := g.byRef[ref]
		if m == nil {
			return
		}
		order = append(order, m)
		for _, dep := range m.ModuleRefs {
			if !dep.Placeholder {
				visit(dep.Ref)
			}
		}
	}

	for _, root := range g.Roots {
		visit(root)
	}
	return order
}
