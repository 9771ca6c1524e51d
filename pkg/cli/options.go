package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/esmpack/esmpack/pkg/api"
)

const configName = "esmpack"

type cliOptions struct {
	build api.BuildOptions
	watch bool
}

func addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("outfile", "", "The output file (the bundle goes to stdout otherwise)")
	flags.String("working-dir", "", "Resolve entry points and the config file relative to this directory")
	flags.String("config", "", "Read options from this file instead of "+configName+".{json,yaml,toml}")
	flags.String("sourcefile", "", "The name of the module read from stdin")
	flags.String("log-level", "info", "One of verbose, info, warning, error or silent")
	flags.String("color", "", "Force use of color terminal escapes (true or false)")
	flags.Int("error-limit", 10, "Maximum error count or 0 to disable")
	flags.Bool("tolerant", false, "Bundle an empty object in place of imports that can't be resolved")
	flags.Bool("watch", false, "Rebuild when an input file changes")
}

// loadConfig layers the flags over the environment over the config file
func loadConfig(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(configName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Could not read config file %q: %w", path, err)
		}
		return v, nil
	}

	dir := v.GetString("working-dir")
	if dir == "" {
		dir = "."
	}
	v.SetConfigName(configName)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("Could not read config file: %w", err)
		}
	}
	return v, nil
}

func parseLogLevel(text string) (api.LogLevel, error) {
	switch text {
	case "verbose":
		return api.LogLevelVerbose, nil
	case "info":
		return api.LogLevelInfo, nil
	case "warning":
		return api.LogLevelWarning, nil
	case "error":
		return api.LogLevelError, nil
	case "silent":
		return api.LogLevelSilent, nil
	default:
		return 0, fmt.Errorf("Invalid log level: %q (valid: verbose, info, warning, error, silent)", text)
	}
}

func parseColor(text string) (api.StderrColor, error) {
	switch text {
	case "":
		return api.ColorIfTerminal, nil
	case "true":
		return api.ColorAlways, nil
	case "false":
		return api.ColorNever, nil
	default:
		return 0, fmt.Errorf("Invalid value for \"--color\": %q (valid: true, false)", text)
	}
}

func parseOptions(v *viper.Viper, args []string, stdin io.Reader) (cliOptions, error) {
	var options cliOptions
	var err error
	build := &options.build

	if build.LogLevel, err = parseLogLevel(v.GetString("log-level")); err != nil {
		return cliOptions{}, err
	}
	if build.Color, err = parseColor(v.GetString("color")); err != nil {
		return cliOptions{}, err
	}
	build.ErrorLimit = v.GetInt("error-limit")
	if v.GetBool("tolerant") {
		build.ResolvePolicy = api.ResolveTolerant
	}
	options.watch = v.GetBool("watch")

	workingDir := v.GetString("working-dir")
	if workingDir != "" {
		if workingDir, err = filepath.Abs(workingDir); err != nil {
			return cliOptions{}, fmt.Errorf("Invalid working directory: %w", err)
		}
		build.AbsWorkingDir = workingDir
	}

	if outfile := v.GetString("outfile"); outfile != "" {
		if workingDir != "" && !filepath.IsAbs(outfile) {
			outfile = filepath.Join(workingDir, outfile)
		}
		build.Outfile = outfile
		build.Write = true
	}

	build.EntryPoints = args
	if len(build.EntryPoints) == 0 {
		build.EntryPoints = v.GetStringSlice("entry-points")
	}

	// Without entry points the module is read from stdin
	if len(build.EntryPoints) == 0 {
		if options.watch {
			return cliOptions{}, errors.New("Cannot use \"--watch\" when reading from stdin")
		}
		contents, err := io.ReadAll(stdin)
		if err != nil {
			return cliOptions{}, fmt.Errorf("Could not read from stdin: %w", err)
		}
		build.Stdin = &api.StdinOptions{
			Contents:   string(contents),
			ResolveDir: workingDir,
			Sourcefile: v.GetString("sourcefile"),
		}
	}

	if options.watch && build.Outfile == "" {
		return cliOptions{}, errors.New("Cannot use \"--watch\" without \"--outfile\"")
	}
	return options, nil
}
