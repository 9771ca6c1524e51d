package api

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/esmpack/esmpack/internal/fs"
)

func buildWithFiles(ctx context.Context, files map[string]string, options BuildOptions) BuildResult {
	return buildImpl(ctx, fs.MockFS(files, "/"), nil, options)
}

func TestBuildSucceeded(t *testing.T) {
	result := buildWithFiles(context.Background(), map[string]string{
		"/src/entry.js": "import { a } from './a.js';\nconsole.log(a);\n",
		"/src/a.js":     "export const a = 1;\n",
	}, BuildOptions{EntryPoints: []string{"/src/entry.js"}})

	require.Equal(t, BuildSucceeded, result.Status)
	require.Empty(t, result.Errors)
	require.Empty(t, result.Warnings)
	require.Equal(t, []string{"/src/a.js", "/src/entry.js"}, result.Files)

	js := string(result.OutputJS)
	require.Contains(t, js, `"src/entry.js": function (__esmpack_require) {`)
	require.Contains(t, js, `var __mod0 = __esmpack_require("src/a.js");`)
	require.Contains(t, js, "console.log(__mod0.a);\n")
	require.True(t, strings.HasSuffix(js, "  __esmpack_require(\"src/entry.js\");\n  while (__esmpack_queue.length) __esmpack_queue.shift()();\n})();\n"))
}

func TestBuildFailed(t *testing.T) {
	result := buildWithFiles(context.Background(), map[string]string{
		"/src/entry.js": "import { a } from './missing.js';\nconsole.log(a);\n",
	}, BuildOptions{EntryPoints: []string{"/src/entry.js"}})

	require.Equal(t, BuildFailed, result.Status)
	require.Nil(t, result.OutputJS)
	require.Nil(t, result.Files)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0].Text, `Could not read "src/missing.js"`)
	require.NotNil(t, result.Errors[0].Location)
	require.Equal(t, "src/entry.js", result.Errors[0].Location.File)
	require.Equal(t, 1, result.Errors[0].Location.Line)
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := buildWithFiles(ctx, map[string]string{
		"/entry.js": "export const a = 1;\n",
	}, BuildOptions{EntryPoints: []string{"/entry.js"}})

	require.Equal(t, BuildCancelled, result.Status)
	require.Nil(t, result.OutputJS)
}

func TestBuildValidation(t *testing.T) {
	result := buildWithFiles(context.Background(), map[string]string{}, BuildOptions{})
	require.Equal(t, BuildFailed, result.Status)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Must provide at least one entry point or \"stdin\"", result.Errors[0].Text)
	require.Nil(t, result.Errors[0].Location)

	result = buildWithFiles(context.Background(), map[string]string{
		"/entry.js": "",
	}, BuildOptions{EntryPoints: []string{"/entry.js"}, Write: true})
	require.Equal(t, BuildFailed, result.Status)
	require.Equal(t, "Cannot use \"write\" without \"outfile\"", result.Errors[0].Text)
}

func TestBuildStdin(t *testing.T) {
	result := buildWithFiles(context.Background(), map[string]string{
		"/src/a.js": "export const a = 1;\n",
	}, BuildOptions{
		Stdin: &StdinOptions{
			Contents:   "import { a } from './a.js';\nconsole.log(a);\n",
			ResolveDir: "/src",
		},
	})

	require.Equal(t, BuildSucceeded, result.Status)
	require.Equal(t, []string{"/src/a.js"}, result.Files)
	require.Contains(t, string(result.OutputJS), `"<stdin>": function (__esmpack_require) {`)
	require.Contains(t, string(result.OutputJS), `__esmpack_require("<stdin>");`)
}

func TestBuildTolerant(t *testing.T) {
	files := map[string]string{
		"/entry.js": "import lib from 'some-package';\nconsole.log(lib);\n",
	}

	result := buildWithFiles(context.Background(), files, BuildOptions{EntryPoints: []string{"/entry.js"}})
	require.Equal(t, BuildFailed, result.Status)
	require.Len(t, result.Errors, 1)

	result = buildWithFiles(context.Background(), files, BuildOptions{
		EntryPoints:   []string{"/entry.js"},
		ResolvePolicy: ResolveTolerant,
	})
	require.Equal(t, BuildSucceeded, result.Status)
	require.Len(t, result.Warnings, 1)
	require.Contains(t, string(result.OutputJS), "var __mod0 = {};")
	require.Contains(t, string(result.OutputJS), "console.log(__mod0.default);")
}

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestBuildWritesOutfile(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "entry.js")
	outfile := filepath.Join(dir, "out", "bundle.js")
	writeFile(t, entry, "export const a = 1;\n")

	result := Build(context.Background(), BuildOptions{
		EntryPoints: []string{entry},
		Outfile:     outfile,
		Write:       true,
	})
	require.Equal(t, BuildSucceeded, result.Status, "%v", result.Errors)

	written, err := os.ReadFile(outfile)
	require.NoError(t, err)
	require.Equal(t, string(result.OutputJS), string(written))
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "entry.js")
	dep := filepath.Join(dir, "dep.js")
	writeFile(t, entry, "import { value } from './dep.js';\nconsole.log(value);\n")
	writeFile(t, dep, "export const value = 'first';\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan BuildResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, BuildOptions{EntryPoints: []string{entry}}, WatchOptions{
			Debounce:  20 * time.Millisecond,
			OnRebuild: func(result BuildResult) { results <- result },
		})
	}()

	waitForResult := func() BuildResult {
		t.Helper()
		select {
		case result := <-results:
			return result
		case <-time.After(10 * time.Second):
			t.Fatal("timed out waiting for a build")
			return BuildResult{}
		}
	}

	first := waitForResult()
	require.Equal(t, BuildSucceeded, first.Status)
	require.Contains(t, string(first.OutputJS), "'first'")

	// A save can be seen half way through, so wait for a build that has it
	writeFile(t, dep, "export const value = 'second';\n")
	for {
		result := waitForResult()
		if result.Status == BuildSucceeded && strings.Contains(string(result.OutputJS), "'second'") {
			break
		}
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}
