package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/esmpack/esmpack/internal/exitcode"
	"github.com/esmpack/esmpack/pkg/api"
)

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "esmpack [entry points]",
		Short: "Bundle ECMAScript modules into a single script",
		Long: `Bundles ECMAScript modules into a single script that runs without a
module loader. Only relative imports are followed. With no entry points
the module is read from stdin.`,
		Version:       esmpackVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(cmd)
			if err != nil {
				return exitcode.Set(err, exitcode.Failure)
			}
			options, err := parseOptions(v, args, stdin)
			if err != nil {
				return exitcode.Set(err, exitcode.Failure)
			}
			if options.watch {
				return runWatch(cmd, options)
			}
			return runBuild(cmd, options, stdout)
		},
	}
	addFlags(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, options cliOptions, stdout io.Writer) error {
	result := api.Build(cmd.Context(), options.build)
	if code := exitCodeForStatus(result.Status); code != exitcode.Success {
		return exitcode.Reported(code)
	}

	if options.build.Outfile == "" {
		if _, err := stdout.Write(result.OutputJS); err != nil {
			return exitcode.Set(fmt.Errorf("Failed to write to stdout: %w", err), exitcode.Failure)
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, options cliOptions) error {
	stderr := cmd.ErrOrStderr()
	builds := 0

	err := api.Watch(cmd.Context(), options.build, api.WatchOptions{
		OnRebuild: func(result api.BuildResult) {
			builds++
			if options.build.LogLevel == api.LogLevelSilent {
				return
			}
			if builds == 1 {
				fmt.Fprintf(stderr, "[watch] build %s, watching for changes...\n", result.Status)
			} else {
				fmt.Fprintf(stderr, "[watch] build %s\n", result.Status)
			}
		},
	})
	if err != nil {
		return exitcode.Set(err, exitcode.Failure)
	}

	// Watching only ends when interrupted
	return exitcode.Reported(exitcode.Cancelled)
}
