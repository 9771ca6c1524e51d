package bundler

// Scanning discovers every module reachable from the roots. Each module is
// loaded, parsed, and analyzed on its own goroutine and the results come back
// over a single channel to the scanning goroutine. Only that goroutine reads
// or writes the "visited" map, so checking for a module and scheduling it is
// atomic without a lock and each module is loaded exactly once no matter how
// many modules import it concurrently. Import cycles terminate on their own
// because a module that is already in the map is never scheduled again.

import (
	"context"
	"errors"
	"fmt"

	"github.com/esmpack/esmpack/internal/analyzer"
	"github.com/esmpack/esmpack/internal/config"
	"github.com/esmpack/esmpack/internal/fs"
	"github.com/esmpack/esmpack/internal/graph"
	"github.com/esmpack/esmpack/internal/helpers"
	"github.com/esmpack/esmpack/internal/js_parser"
	"github.com/esmpack/esmpack/internal/logger"
	"github.com/esmpack/esmpack/internal/resolver"
)

type parseArgs struct {
	ctx    context.Context
	log    logger.Log
	loader Loader
	res    analyzer.Resolver
	policy config.ResolvePolicy
	module *graph.Module

	// Where the module was first imported from, if it isn't a root
	importSource *logger.Source
	importRange  logger.Range

	results chan parseResult
}

type parseResult struct {
	module *graph.Module
	err    error
}

func parseFile(args parseArgs) {
	m := args.module
	result := parseResult{module: m}

	defer func() {
		if r := recover(); r != nil {
			text := fmt.Sprintf("panic while scanning %q: %v", m.Source.PrettyPath, r)
			args.log.AddError(nil, logger.Loc{}, text+"\n"+helpers.PrettyPrintedStack())
			result = parseResult{module: m, err: errors.New(text)}
		}
		args.results <- result
	}()

	contents, err := args.loader.Load(args.ctx, m.Ref)
	if err != nil {
		if ctxErr := args.ctx.Err(); ctxErr != nil {
			result.err = ctxErr
			return
		}
		var contentErr *graph.ContentError
		if !errors.As(err, &contentErr) {
			contentErr = &graph.ContentError{Ref: m.Ref, Hint: "loader", Err: err}
		}
		args.log.AddRangeError(args.importSource, args.importRange,
			fmt.Sprintf("Could not read %q from the %s: %v", m.Source.PrettyPath, contentErr.Hint, contentErr.Err))
		result.err = contentErr
		return
	}
	m.Source.Contents = contents
	m.State = graph.StateLoaded
	args.log.AddVerbose(fmt.Sprintf("Loaded %q (%d bytes)", m.Source.PrettyPath, len(contents)))

	ast, err := js_parser.Parse(args.ctx, args.log, m.Source)
	if err != nil {
		if ctxErr := args.ctx.Err(); ctxErr != nil {
			result.err = ctxErr
			return
		}
		result.err = &graph.ParseError{Ref: m.Ref, Err: err}
		return
	}
	m.AST = ast
	m.State = graph.StateParsed

	if err := analyzer.Analyze(args.ctx, args.log, m, args.res, args.policy); err != nil {
		result.err = err
		return
	}
	args.log.AddVerbose(fmt.Sprintf("Analyzed %q (%d imports, %d exports, %d referenced modules)",
		m.Source.PrettyPath, len(m.Imports), len(m.Exports), len(m.ModuleRefs)))
}

// ScanBundle builds the module graph reachable from the roots in "options".
// The first failure cancels every other module in flight and is returned as
// is. If "ctx" is cancelled the context's error is returned instead, so the
// caller can tell a cancelled build apart from a failed one.
func ScanBundle(ctx context.Context, log logger.Log, fsys fs.FS, loader Loader, options config.Options) (*graph.Graph, error) {
	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if options.AbsWorkingDir == "" {
		options.AbsWorkingDir = fsys.Cwd()
	}
	res := resolver.NewResolver(fsys, options.AbsWorkingDir)

	// Inline contents are registered up front because the loader is read
	// from the parsing goroutines as soon as the first one starts
	inlineRefs := make([]graph.ModuleRef, 0, len(options.InlineRoots))
	if len(options.InlineRoots) > 0 {
		inline := NewInlineLoader(loader)
		seen := make(map[graph.ModuleRef]bool, len(options.InlineRoots))
		for _, root := range options.InlineRoots {
			ref := graph.ModuleRef{Namespace: graph.NamespaceInline, Path: inlineRootName(root)}
			if seen[ref] {
				log.AddError(nil, logger.Loc{}, fmt.Sprintf("Duplicate inline root %q", ref.Path))
				inlineRefs = append(inlineRefs, graph.ModuleRef{})
				continue
			}
			seen[ref] = true
			inline.Add(ref, root.Contents)
			inlineRefs = append(inlineRefs, ref)
		}
		loader = inline
	}

	visited := make(map[graph.ModuleRef]*graph.Module)
	modules := []*graph.Module{}
	roots := []graph.ModuleRef{}
	resultChannel := make(chan parseResult)
	remaining := 0

	maybeParseFile := func(
		ref graph.ModuleRef,
		prettyPath string,
		moduleRes analyzer.Resolver,
		importSource *logger.Source,
		importRange logger.Range,
	) bool {
		if _, ok := visited[ref]; ok {
			return false
		}

		m := graph.NewModule(ref, logger.Source{
			Index:      uint32(len(modules)),
			KeyPath:    logger.Path{Text: ref.Path, Namespace: ref.Namespace},
			PrettyPath: prettyPath,
		})
		visited[ref] = m
		modules = append(modules, m)
		remaining++

		go parseFile(parseArgs{
			ctx:          scanCtx,
			log:          log,
			loader:       loader,
			res:          moduleRes,
			policy:       options.ResolvePolicy,
			module:       m,
			importSource: importSource,
			importRange:  importRange,
			results:      resultChannel,
		})
		return true
	}

	prettyPathForRef := func(ref graph.ModuleRef) string {
		if ref.IsFile() {
			return fs.PrettyPath(fsys, ref.Path) + ref.Suffix
		}
		return ref.Path
	}

	for _, entryPoint := range options.EntryPoints {
		ref := res.ResolveEntryPoint(entryPoint)
		if maybeParseFile(ref, prettyPathForRef(ref), res, nil, logger.Range{}) {
			roots = append(roots, ref)
		} else {
			log.AddVerbose(fmt.Sprintf("Ignoring duplicate entry point %q", entryPoint))
		}
	}

	for i, root := range options.InlineRoots {
		ref := inlineRefs[i]
		if ref.Path == "" {
			continue
		}
		moduleRes := res
		if root.ResolveDir != "" {
			moduleRes = resolver.NewResolver(fsys, root.ResolveDir)
		}
		maybeParseFile(ref, ref.Path, moduleRes, nil, logger.Range{})
		roots = append(roots, ref)
	}

	// Continue scanning until all dependencies have been discovered
	var firstErr error
	for remaining > 0 {
		result := <-resultChannel
		remaining--

		if result.err != nil {
			if firstErr == nil {
				firstErr = result.err
				cancel()
			}
			continue
		}

		// Drain the modules that are still in flight without scheduling more
		if firstErr != nil {
			continue
		}

		m := result.module
		for _, dep := range m.ModuleRefs {
			if !dep.Placeholder {
				maybeParseFile(dep.Ref, prettyPathForRef(dep.Ref), res, &m.Source, dep.Range)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr == nil && log.HasErrors() {
		firstErr = errors.New("scanning failed")
	}
	if firstErr != nil {
		return nil, firstErr
	}

	log.AddVerbose(fmt.Sprintf("Scanned %d modules from %d roots", len(modules), len(roots)))
	return graph.NewGraph(modules, roots), nil
}

func inlineRootName(root config.InlineRoot) string {
	if root.SourceFile == "" {
		return "<stdin>"
	}
	return root.SourceFile
}
