package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/esmpack/esmpack/internal/exitcode"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, ctx context.Context, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(ctx, args, strings.NewReader(stdin), &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	}
	return dir
}

func TestBuildToStdout(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "import { a } from './lib/a.js';\nconsole.log(a);\n",
		"lib/a.js": "export const a = 1;\n",
	})

	result := runCLI(t, context.Background(), "", filepath.Join(dir, "entry.js"), "--log-level=silent")
	require.Equal(t, exitcode.Success, result.code, result.stderr)
	require.Contains(t, result.stdout, "console.log(__mod0.a);")
	require.Contains(t, result.stdout, "__esmpack_require(")
}

func TestBuildFailure(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "import { a } from './missing.js';\n",
	})

	result := runCLI(t, context.Background(), "", filepath.Join(dir, "entry.js"), "--log-level=silent")
	require.Equal(t, exitcode.Failure, result.code)
	require.Empty(t, result.stdout)
}

func TestBuildCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"entry.js": "export const a = 1;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := runCLI(t, ctx, "", filepath.Join(dir, "entry.js"), "--log-level=silent")
	require.Equal(t, exitcode.Cancelled, result.code)
	require.Empty(t, result.stdout)
}

func TestOutfileRelativeToWorkingDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{"entry.js": "export const a = 1;\n"})

	result := runCLI(t, context.Background(), "", "entry.js",
		"--working-dir="+dir, "--outfile=out/bundle.js", "--log-level=silent")
	require.Equal(t, exitcode.Success, result.code, result.stderr)
	require.Empty(t, result.stdout)

	written, err := os.ReadFile(filepath.Join(dir, "out", "bundle.js"))
	require.NoError(t, err)
	require.Contains(t, string(written), "a: function () { return a; }")
}

func TestConfigFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js":     "import x from 'not-relative';\nconsole.log(x);\n",
		"esmpack.yaml": "entry-points:\n  - entry.js\noutfile: bundle.js\ntolerant: true\nlog-level: silent\n",
	})

	result := runCLI(t, context.Background(), "", "--working-dir="+dir)
	require.Equal(t, exitcode.Success, result.code, result.stderr)

	written, err := os.ReadFile(filepath.Join(dir, "bundle.js"))
	require.NoError(t, err)
	require.Contains(t, string(written), "console.log(__mod0.default);")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"entry.js": "import x from 'not-relative';\nconsole.log(x);\n",
	})
	entry := filepath.Join(dir, "entry.js")

	t.Setenv("ESMPACK_TOLERANT", "true")
	t.Setenv("ESMPACK_LOG_LEVEL", "silent")
	result := runCLI(t, context.Background(), "", entry)
	require.Equal(t, exitcode.Success, result.code, result.stderr)

	result = runCLI(t, context.Background(), "", entry, "--tolerant=false")
	require.Equal(t, exitcode.Failure, result.code)
}

func TestStdin(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "export const a = 1;\n"})

	result := runCLI(t, context.Background(), "import { a } from './a.js';\nconsole.log(a);\n",
		"--working-dir="+dir, "--sourcefile=input.js", "--log-level=silent")
	require.Equal(t, exitcode.Success, result.code, result.stderr)
	require.Contains(t, result.stdout, `"input.js": function (__esmpack_require) {`)
	require.Contains(t, result.stdout, "console.log(__mod0.a);")
}

func TestInvalidOptions(t *testing.T) {
	for _, args := range [][]string{
		{"entry.js", "--color=sometimes"},
		{"entry.js", "--log-level=loud"},
		{"entry.js", "--watch"},
		{"--watch", "--outfile=out.js"},
		{"--no-such-flag"},
	} {
		result := runCLI(t, context.Background(), "", args...)
		require.Equal(t, exitcode.Failure, result.code, strings.Join(args, " "))
		require.True(t, strings.HasPrefix(result.stderr, "error: "), result.stderr)
	}
}
