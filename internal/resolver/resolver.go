package resolver

// Only relative and absolute path specifiers can be bundled. Everything else
// (package names, "node:" builtins, remote URLs) is reported to the caller,
// who decides whether that is fatal.

import (
	"strings"

	"github.com/esmpack/esmpack/internal/fs"
	"github.com/esmpack/esmpack/internal/graph"
)

type Resolver struct {
	fs fs.FS

	// Relative specifiers in inline modules are resolved against this
	resolveDir string
}

func NewResolver(fs fs.FS, resolveDir string) *Resolver {
	if resolveDir == "" {
		resolveDir = fs.Cwd()
	} else if abs, ok := fs.Abs(resolveDir); ok {
		resolveDir = abs
	}
	return &Resolver{fs: fs, resolveDir: resolveDir}
}

// Resolve maps "specifier" as written in "referrer" onto a module reference.
// Failures are reported through "onError" instead of being returned so that
// the caller's policy decides what a failure means.
func (r *Resolver) Resolve(specifier string, referrer graph.ModuleRef, onError func(*graph.ResolveError)) (graph.ModuleRef, bool) {
	fail := func(reason string) (graph.ModuleRef, bool) {
		onError(&graph.ResolveError{Specifier: specifier, Referrer: referrer, Reason: reason})
		return graph.ModuleRef{}, false
	}

	if IsPackagePath(specifier) {
		if hasURLScheme(specifier) {
			return fail("URL specifiers are not supported, only relative paths can be bundled")
		}
		return fail("bare specifiers are not supported, only relative paths can be bundled")
	}

	path, suffix := SplitSuffix(specifier)
	if path == "" {
		return fail("the specifier does not name a file")
	}

	var abs string
	if strings.HasPrefix(path, "/") {
		abs = r.fs.Join(path)
	} else {
		dir := r.resolveDir
		if referrer.IsFile() {
			dir = r.fs.Dir(referrer.Path)
		}
		abs = r.fs.Join(dir, path)
	}

	return graph.ModuleRef{Namespace: graph.NamespaceFile, Path: abs, Suffix: suffix}, true
}

// ResolveEntryPoint turns a path given by the user into a module reference.
// Unlike import specifiers these may be written without a leading "./".
func (r *Resolver) ResolveEntryPoint(path string) graph.ModuleRef {
	path, suffix := SplitSuffix(path)
	if !r.fs.IsAbs(path) {
		path = r.fs.Join(r.resolveDir, path)
	}
	if abs, ok := r.fs.Abs(path); ok {
		path = abs
	}
	return graph.ModuleRef{Namespace: graph.NamespaceFile, Path: path, Suffix: suffix}
}

func IsPackagePath(path string) bool {
	return !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "./") &&
		!strings.HasPrefix(path, "../") && path != "." && path != ".."
}

// SplitSuffix separates a "?query" or "#fragment" from the path
func SplitSuffix(specifier string) (string, string) {
	if i := strings.IndexAny(specifier, "?#"); i != -1 {
		return specifier[:i], specifier[i:]
	}
	return specifier, ""
}

func hasURLScheme(specifier string) bool {
	colon := strings.IndexByte(specifier, ':')
	if colon < 1 {
		return false
	}
	for i, c := range specifier[:colon] {
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isAlpha && (i == 0 || ((c < '0' || c > '9') && c != '+' && c != '-' && c != '.')) {
			return false
		}
	}
	return true
}
