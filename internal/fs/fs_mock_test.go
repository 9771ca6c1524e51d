package fs

import (
	"errors"
	"syscall"
	"testing"

	"github.com/esmpack/esmpack/internal/test"
)

func TestMockFSReadFile(t *testing.T) {
	fs := MockFS(map[string]string{
		"/src/entry.js": "export {}",
	}, "/src")

	contents, err := fs.ReadFile("/src/./entry.js")
	test.AssertEqual(t, err, nil)
	test.AssertEqual(t, contents, "export {}")

	_, err = fs.ReadFile("/src/missing.js")
	test.AssertEqual(t, errors.Is(err, syscall.ENOENT), true)
}

func TestMockFSRel(t *testing.T) {
	fs := MockFS(nil, "")

	expect := func(a string, b string, c string) {
		t.Helper()
		t.Run(a+" "+b, func(t *testing.T) {
			t.Helper()
			rel, ok := fs.Rel(a, b)
			test.AssertEqual(t, ok, true)
			test.AssertEqual(t, rel, c)
		})
	}

	expect("/a/b", "/a/b", ".")
	expect("/a/b", "/a/b/c", "c")
	expect("/a/b", "/a/c", "../c")
	expect("/a/b/c", "/a", "../..")
	expect("/", "/a/b", "a/b")
}

func TestPrettyPath(t *testing.T) {
	fs := MockFS(nil, "/project")
	test.AssertEqual(t, PrettyPath(fs, "/project/src/a.js"), "src/a.js")
	test.AssertEqual(t, PrettyPath(fs, "/other/b.js"), "/other/b.js")
}
