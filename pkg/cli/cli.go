package cli

// The command line interface is a thin layer over the build API. Options can
// come from flags, from "ESMPACK_*" environment variables or from an
// "esmpack.{json,yaml,toml}" file in the working directory, in that order of
// precedence.

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/esmpack/esmpack/internal/exitcode"
	"github.com/esmpack/esmpack/pkg/api"
)

const esmpackVersion = "0.1.0"

// Run runs the command line interface and returns the process exit code
func Run(ctx context.Context, osArgs []string) int {
	return run(ctx, osArgs, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, osArgs []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	cmd := newRootCommand(stdin, stdout)
	cmd.SetArgs(osArgs)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// Errors that carry no message were already printed by the build log
	err := cmd.ExecuteContext(ctx)
	if err != nil && !exitcode.IsReported(err) {
		fmt.Fprintf(stderr, "error: %s\n", err.Error())
	}
	return exitcode.Get(err)
}

func exitCodeForStatus(status api.BuildStatus) int {
	switch status {
	case api.BuildSucceeded:
		return exitcode.Success
	case api.BuildCancelled:
		return exitcode.Cancelled
	default:
		return exitcode.Failure
	}
}
