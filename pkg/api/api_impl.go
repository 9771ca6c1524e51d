package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/esmpack/esmpack/internal/bundler"
	"github.com/esmpack/esmpack/internal/cache"
	"github.com/esmpack/esmpack/internal/config"
	"github.com/esmpack/esmpack/internal/fs"
	"github.com/esmpack/esmpack/internal/linker"
	"github.com/esmpack/esmpack/internal/logger"
)

func validateColor(value StderrColor) logger.StderrColor {
	switch value {
	case ColorIfTerminal:
		return logger.ColorIfTerminal
	case ColorNever:
		return logger.ColorNever
	case ColorAlways:
		return logger.ColorAlways
	default:
		panic("Invalid color")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelVerbose:
		return logger.LevelVerbose
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateResolvePolicy(value ResolvePolicy) config.ResolvePolicy {
	switch value {
	case ResolveStrict:
		return config.ResolveStrict
	case ResolveTolerant:
		return config.ResolveTolerant
	default:
		panic("Invalid resolve policy")
	}
}

func validatePath(log logger.Log, fs fs.FS, relPath string) string {
	if relPath == "" {
		return ""
	}
	absPath, ok := fs.Abs(relPath)
	if !ok {
		log.AddError(nil, logger.Loc{}, fmt.Sprintf("Invalid path: %s", relPath))
	}
	return absPath
}

func messagesOfKind(kind logger.MsgKind, msgs []logger.Msg) []Message {
	var filtered []Message
	for _, msg := range msgs {
		if msg.Kind == kind {
			var location *Location
			if loc := msg.Location; loc != nil {
				location = &Location{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			filtered = append(filtered, Message{Text: msg.Text, Location: location})
		}
	}
	return filtered
}

func newLog(options BuildOptions) logger.Log {
	if options.LogLevel == LogLevelSilent {
		return logger.NewDeferLog()
	}
	return logger.NewStderrLog(logger.OutputOptions{
		IncludeSource: true,
		ErrorLimit:    options.ErrorLimit,
		Color:         validateColor(options.Color),
		LogLevel:      validateLogLevel(options.LogLevel),
	})
}

func validateBuildOptions(log logger.Log, fsys fs.FS, options BuildOptions) config.Options {
	result := config.Options{
		AbsWorkingDir: validatePath(log, fsys, options.AbsWorkingDir),
		ResolvePolicy: validateResolvePolicy(options.ResolvePolicy),
		AbsOutputFile: validatePath(log, fsys, options.Outfile),
	}

	seen := make(map[string]bool, len(options.EntryPoints))
	for _, entryPoint := range options.EntryPoints {
		if entryPoint == "" {
			log.AddError(nil, logger.Loc{}, "Invalid entry point: the path is empty")
			continue
		}
		if seen[entryPoint] {
			continue
		}
		seen[entryPoint] = true
		result.EntryPoints = append(result.EntryPoints, entryPoint)
	}

	if stdin := options.Stdin; stdin != nil {
		result.InlineRoots = append(result.InlineRoots, config.InlineRoot{
			SourceFile: stdin.Sourcefile,
			Contents:   stdin.Contents,
			ResolveDir: validatePath(log, fsys, stdin.ResolveDir),
		})
	}

	if len(result.EntryPoints) == 0 && len(result.InlineRoots) == 0 {
		log.AddError(nil, logger.Loc{}, "Must provide at least one entry point or \"stdin\"")
	}
	if options.Write && result.AbsOutputFile == "" {
		log.AddError(nil, logger.Loc{}, "Cannot use \"write\" without \"outfile\"")
	}
	return result
}

// A nil "fsCache" reads every file from "fsys"
func buildImpl(ctx context.Context, fsys fs.FS, fsCache *cache.FSCache, options BuildOptions) BuildResult {
	log := newLog(options)
	buildOptions := validateBuildOptions(log, fsys, options)

	var output linker.Output
	var err error
	if log.HasErrors() {
		err = errors.New("invalid build options")
	} else {
		err = runBuild(ctx, log, fsys, fsCache, buildOptions, &output)
	}

	if err == nil && options.Write {
		if writeErr := writeOutputFile(buildOptions.AbsOutputFile, output.JS); writeErr != nil {
			log.AddError(nil, logger.Loc{}, fmt.Sprintf("Failed to write to output file: %s", writeErr.Error()))
			err = writeErr
		}
	}

	msgs := log.Done()
	result := BuildResult{
		Errors:   messagesOfKind(logger.Error, msgs),
		Warnings: messagesOfKind(logger.Warning, msgs),
	}

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		result.Status = BuildCancelled

	case err != nil:
		result.Status = BuildFailed

		// Errors are normally logged where they happen, but an internal error
		// may not have been
		if len(result.Errors) == 0 {
			result.Errors = []Message{{Text: err.Error()}}
		}

	default:
		result.Status = BuildSucceeded
		result.OutputJS = output.JS
		result.Files = output.Files
	}
	return result
}

func runBuild(ctx context.Context, log logger.Log, fsys fs.FS, fsCache *cache.FSCache, options config.Options, output *linker.Output) error {
	loader := bundler.NewFSLoader(fsys)
	if fsCache != nil {
		loader = bundler.NewCachedFSLoader(fsys, fsCache)
	}
	g, err := bundler.ScanBundle(ctx, log, fsys, loader, options)
	if err != nil {
		return err
	}
	*output, err = linker.Link(ctx, log, g, options)
	return err
}

func writeOutputFile(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}
