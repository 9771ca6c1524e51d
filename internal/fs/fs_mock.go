package fs

// An in-memory file system for tests. Paths always use forward slashes and
// the working directory defaults to "/".

import (
	"fmt"
	"path"
	"strings"
	"syscall"
)

type mockFS struct {
	files         map[string]string
	absWorkingDir string
}

func MockFS(input map[string]string, absWorkingDir string) FS {
	files := make(map[string]string, len(input))
	for k, v := range input {
		files[path.Clean(k)] = v
	}
	if absWorkingDir == "" {
		absWorkingDir = "/"
	}
	return &mockFS{files: files, absWorkingDir: absWorkingDir}
}

func (fs *mockFS) ReadFile(p string) (string, error) {
	if contents, ok := fs.files[path.Clean(p)]; ok {
		return contents, nil
	}
	return "", fmt.Errorf("open %s: %w", p, syscall.ENOENT)
}

func (*mockFS) IsAbs(p string) bool {
	return path.IsAbs(p)
}

func (fs *mockFS) Abs(p string) (string, bool) {
	if !path.IsAbs(p) {
		p = path.Join(fs.absWorkingDir, p)
	}
	return path.Clean(p), true
}

func (*mockFS) Dir(p string) string {
	return path.Dir(p)
}

func (*mockFS) Base(p string) string {
	return path.Base(p)
}

func (*mockFS) Ext(p string) string {
	return path.Ext(p)
}

func (*mockFS) Join(parts ...string) string {
	return path.Clean(path.Join(parts...))
}

func (fs *mockFS) Cwd() string {
	return fs.absWorkingDir
}

func (*mockFS) Rel(base string, target string) (string, bool) {
	base = strings.TrimPrefix(path.Clean(base), "/")
	target = strings.TrimPrefix(path.Clean(target), "/")

	if base == "" {
		return target, true
	}
	if base == target {
		return ".", true
	}

	// Strip the common leading directories
	for {
		bHead, bTail := splitOnSlash(base)
		tHead, tTail := splitOnSlash(target)
		if bHead != tHead || bHead == "" {
			break
		}
		base, target = bTail, tTail
	}

	if base == "" {
		return target, true
	}
	up := strings.Repeat("../", strings.Count(base, "/")+1)
	if target == "" {
		return up[:len(up)-1], true
	}
	return up + target, true
}

func splitOnSlash(p string) (string, string) {
	if slash := strings.IndexByte(p, '/'); slash != -1 {
		return p[:slash], p[slash+1:]
	}
	return p, ""
}
