package config

type ResolvePolicy uint8

const (
	// Any specifier that can't be resolved fails the build
	ResolveStrict ResolvePolicy = iota

	// Unresolvable specifiers become a warning and an empty placeholder
	// object in place of the module's exports
	ResolveTolerant
)

// InlineRoot is a root module whose text is supplied by the caller instead
// of being read from the file system
type InlineRoot struct {
	// Shown in messages and used as the module id in the bundle
	SourceFile string

	Contents string

	// Relative imports are resolved against this directory. Defaults to the
	// working directory.
	ResolveDir string
}

type Options struct {
	AbsWorkingDir string

	// Root modules are required in the order given, all of "EntryPoints"
	// before any of "InlineRoots". The two lists are never interleaved.
	EntryPoints []string
	InlineRoots []InlineRoot

	ResolvePolicy ResolvePolicy

	// If set, the bundle is also written to this path
	AbsOutputFile string

	// Only emit the module table without the bootstrap code around it
	OmitRuntimeForTests bool
}
