package linker

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/esmpack/esmpack/internal/graph"
)

// Each worker owns one of these and reuses it for every module it rewrites.
// Nothing in here is ever shared between workers.
type rewriteScratch struct {
	subs   []Substitution
	buffer []byte
}

// rewriteModules rewrites and renders every module. Modules don't depend on
// each other at this point since every export table is computed from the
// graph, which is read-only, so the work is spread over a fixed set of
// workers. The first failure stops the remaining work.
func (c *linkerContext) rewriteModules(modules []*graph.Module) ([]string, error) {
	pieces := make([]string, len(modules))
	group, ctx := errgroup.WithContext(c.ctx)
	work := make(chan int)

	group.Go(func() error {
		defer close(work)
		for i := range modules {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := runtime.GOMAXPROCS(0)
	if workers > len(modules) {
		workers = len(modules)
	}
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			scratch := &rewriteScratch{}
			for i := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				piece, err := c.linkModule(modules[i], scratch)
				if err != nil {
					return err
				}
				pieces[i] = piece
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return pieces, nil
}

// rewriteModule applies the module's substitutions to its source text
func (c *linkerContext) rewriteModule(m *graph.Module, scratch *rewriteScratch) (string, error) {
	scratch.subs = collectSubstitutions(m, scratch.subs)
	if r, ok := sortSubstitutions(scratch.subs); !ok {
		reason := "Internal error: overlapping substitutions"
		c.log.AddRangeError(&m.Source, r, reason)
		return "", &graph.RewriteError{Ref: m.Ref, Source: &m.Source, Range: r, Reason: reason}
	}
	scratch.buffer = applySubstitutions(m.Source.Contents, scratch.subs, scratch.buffer)
	return string(scratch.buffer), nil
}
