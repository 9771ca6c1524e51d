package fs

// FS abstracts the file system so the bundler can run against an in-memory
// tree in tests. Path manipulation is part of the interface so the mock
// implementation behaves identically on every platform.
type FS interface {
	// Returns syscall.ENOENT (possibly wrapped) for missing files
	ReadFile(path string) (contents string, err error)

	IsAbs(path string) bool
	Abs(path string) (string, bool)
	Dir(path string) string
	Base(path string) string
	Ext(path string) string
	Join(parts ...string) string
	Cwd() string
	Rel(base string, target string) (string, bool)
}

// PrettyPath returns "path" relative to the working directory using forward
// slashes, falling back to the absolute path if no relative path exists.
func PrettyPath(fs FS, path string) string {
	if rel, ok := fs.Rel(fs.Cwd(), path); ok && !startsWithDotDot(rel) {
		path = rel
	}
	out := make([]byte, len(path))
	for i := 0; i < len(path); i++ {
		if c := path[i]; c == '\\' {
			out[i] = '/'
		} else {
			out[i] = c
		}
	}
	return string(out)
}

func startsWithDotDot(rel string) bool {
	return rel == ".." || (len(rel) > 2 && rel[:2] == ".." && (rel[2] == '/' || rel[2] == '\\'))
}
