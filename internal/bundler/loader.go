package bundler

import (
	"context"
	"errors"

	"github.com/esmpack/esmpack/internal/cache"
	"github.com/esmpack/esmpack/internal/fs"
	"github.com/esmpack/esmpack/internal/graph"
)

// Loader obtains the text of a module. Failures are returned as a
// *graph.ContentError so the message can say where the text was expected
// to come from.
type Loader interface {
	Load(ctx context.Context, ref graph.ModuleRef) (string, error)
}

type fsLoader struct {
	fs    fs.FS
	cache *cache.FSCache
}

func NewFSLoader(fs fs.FS) Loader {
	return &fsLoader{fs: fs}
}

// NewCachedFSLoader reads through "fsCache", which outlives a single build
func NewCachedFSLoader(fs fs.FS, fsCache *cache.FSCache) Loader {
	return &fsLoader{fs: fs, cache: fsCache}
}

func (l *fsLoader) Load(ctx context.Context, ref graph.ModuleRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !ref.IsFile() {
		return "", &graph.ContentError{Ref: ref, Hint: "file system", Err: errors.New("not a file")}
	}
	var contents string
	var err error
	if l.cache != nil {
		contents, err = l.cache.ReadFile(l.fs, ref.Path)
	} else {
		contents, err = l.fs.ReadFile(ref.Path)
	}
	if err != nil {
		return "", &graph.ContentError{Ref: ref, Hint: "file system", Err: err}
	}
	return contents, nil
}

// InlineLoader serves root modules whose text was passed in directly and
// defers everything else to another loader
type InlineLoader struct {
	contents map[graph.ModuleRef]string
	next     Loader
}

func NewInlineLoader(next Loader) *InlineLoader {
	return &InlineLoader{contents: make(map[graph.ModuleRef]string), next: next}
}

// Add must not be called once loading has started
func (l *InlineLoader) Add(ref graph.ModuleRef, contents string) {
	l.contents[ref] = contents
}

func (l *InlineLoader) Load(ctx context.Context, ref graph.ModuleRef) (string, error) {
	if contents, ok := l.contents[ref]; ok {
		return contents, nil
	}
	if ref.Namespace == graph.NamespaceInline || l.next == nil {
		return "", &graph.ContentError{Ref: ref, Hint: "inline sources", Err: errors.New("no such module")}
	}
	return l.next.Load(ctx, ref)
}
