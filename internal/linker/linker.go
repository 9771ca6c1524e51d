package linker

// The linker turns a scanned module graph into a single script. Every module
// becomes a factory in a table keyed by module id. A factory requires the
// modules it references and returns a function that publishes the module's
// exports as getters and then runs the module's rewritten body. The loader
// that drives the factories lives in the "runtime" package.

import (
	"context"
	"fmt"
	"strings"

	"github.com/esmpack/esmpack/internal/config"
	"github.com/esmpack/esmpack/internal/graph"
	"github.com/esmpack/esmpack/internal/helpers"
	"github.com/esmpack/esmpack/internal/logger"
	"github.com/esmpack/esmpack/internal/runtime"
)

type Output struct {
	JS []byte

	// Every file the output was built from, for watchers and caches
	Files []string
}

type linkerContext struct {
	ctx     context.Context
	log     logger.Log
	graph   *graph.Graph
	options config.Options
	async   bool

	// Module ids as they appear in the factory table
	ids map[graph.ModuleRef]string
}

func Link(ctx context.Context, log logger.Log, g *graph.Graph, options config.Options) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	c := &linkerContext{
		ctx:     ctx,
		log:     log,
		graph:   g,
		options: options,
		async:   g.NeedsAsync(),
	}
	modules := g.Ordered()
	c.assignModuleIDs(modules)

	pieces, err := c.rewriteModules(modules)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Output{}, ctxErr
		}
		return Output{}, err
	}

	j := helpers.Joiner{}
	if !options.OmitRuntimeForTests {
		j.AddString(runtime.Prelude)
	}
	for _, piece := range pieces {
		j.AddString(piece)
	}
	if !options.OmitRuntimeForTests {
		j.AddString(runtime.Loader)
		for _, root := range g.Roots {
			j.AddString(fmt.Sprintf("  %srequire(%s);\n", runtime.Prefix, helpers.QuoteForJSON(c.ids[root])))
		}
		j.AddString(runtime.Epilogue(c.async))
	}

	return Output{JS: j.Done(), Files: g.Files()}, nil
}

// Module ids are the pretty paths of the modules. Two different modules can
// have the same pretty path (a file and inline content with the same name) so
// later ones get a numeric suffix.
func (c *linkerContext) assignModuleIDs(modules []*graph.Module) {
	c.ids = make(map[graph.ModuleRef]string, len(modules))
	used := make(map[string]bool, len(modules))

	for _, m := range modules {
		base := m.Source.PrettyPath
		id := base
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s (%d)", base, n)
		}
		used[id] = true
		c.ids[m.Ref] = id
	}
}

// linkModule rewrites one module and renders its factory
func (c *linkerContext) linkModule(m *graph.Module, scratch *rewriteScratch) (string, error) {
	exports := c.resolveExports(m)

	body, err := c.rewriteModule(m, scratch)
	if err != nil {
		return "", err
	}
	m.Rewritten = body
	m.State = graph.StateRewritten

	c.log.AddVerbose(fmt.Sprintf("Rewrote %s with %d substitutions and %d exports",
		m.Source.PrettyPath, len(scratch.subs), exports.Len()))

	return c.renderModule(m, exports)
}

func (c *linkerContext) renderModule(m *graph.Module, exports *ExportDictionary) (string, error) {
	sb := strings.Builder{}
	requireName := runtime.Prefix + "require"

	sb.WriteString(fmt.Sprintf("    %s: function (%s) {\n", helpers.QuoteForJSON(c.ids[m.Ref]), requireName))
	sb.WriteString("      \"use strict\";\n")

	for _, dep := range m.ModuleRefs {
		if dep.Placeholder {
			sb.WriteString(fmt.Sprintf("      var %s = {};\n", dep.Symbol))
			continue
		}
		id, ok := c.ids[dep.Ref]
		if !ok {
			return "", fmt.Errorf("Internal error: %s references %s which is not in the graph", m.Ref, dep.Ref)
		}
		sb.WriteString(fmt.Sprintf("      var %s = %s(%s);\n", dep.Symbol, requireName, helpers.QuoteForJSON(id)))
	}

	if c.async {
		sb.WriteString(fmt.Sprintf("      return async function (%s) {\n", m.FinalizeLocal))
	} else {
		sb.WriteString(fmt.Sprintf("      return function (%s) {\n", m.FinalizeLocal))
	}

	if m.UsesImportMeta {
		sb.WriteString(fmt.Sprintf("        var %s = { get url() { return %s; } };\n",
			m.ImportMetaLocal, helpers.QuoteForJSON(m.Ref.URL())))
	}

	// The getters read the bindings every time, which is what keeps exports
	// live
	names := exports.Names()
	if len(names) == 0 {
		sb.WriteString(fmt.Sprintf("        %s({});\n", m.FinalizeLocal))
	} else {
		sb.WriteString(fmt.Sprintf("        %s({\n", m.FinalizeLocal))
		for i, name := range names {
			data, _ := exports.Get(name)
			sb.WriteString(fmt.Sprintf("          %s: function () { return %s; }", data.Name.Key(), data.Expr))
			if i+1 < len(names) {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString("        });\n")
	}

	sb.WriteString(m.Rewritten)
	if !strings.HasSuffix(m.Rewritten, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("      };\n")
	sb.WriteString("    },\n")
	return sb.String(), nil
}
