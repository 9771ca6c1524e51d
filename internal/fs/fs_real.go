package fs

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
)

type realFS struct {
	cwd string
}

func RealFS() FS {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = string(filepath.Separator)
	} else if resolved, err := filepath.EvalSymlinks(cwd); err == nil {
		// Input paths get their symlinks resolved too, so relative paths in
		// messages only line up if the working directory is resolved the same way
		cwd = resolved
	}
	return &realFS{cwd: cwd}
}

func (*realFS) ReadFile(path string) (string, error) {
	buffer, err := os.ReadFile(path)

	// Windows reports ENOTDIR for a missing file under a missing directory
	if errors.Is(err, syscall.ENOTDIR) {
		return "", &os.PathError{Op: "open", Path: path, Err: syscall.ENOENT}
	}
	return string(buffer), err
}

func (*realFS) IsAbs(p string) bool {
	return filepath.IsAbs(p)
}

func (fs *realFS) Abs(p string) (string, bool) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(fs.cwd, p)
	}
	return filepath.Clean(p), true
}

func (*realFS) Dir(p string) string {
	return filepath.Dir(p)
}

func (*realFS) Base(p string) string {
	return filepath.Base(p)
}

func (*realFS) Ext(p string) string {
	return filepath.Ext(p)
}

func (*realFS) Join(parts ...string) string {
	return filepath.Clean(filepath.Join(parts...))
}

func (fs *realFS) Cwd() string {
	return fs.cwd
}

func (*realFS) Rel(base string, target string) (string, bool) {
	if rel, err := filepath.Rel(base, target); err == nil {
		return rel, true
	}
	return "", false
}
