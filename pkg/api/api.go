package api

import (
	"context"
	"time"

	"github.com/esmpack/esmpack/internal/fs"
)

type StderrColor uint8

const (
	ColorIfTerminal StderrColor = iota
	ColorNever
	ColorAlways
)

type LogLevel uint8

const (
	LogLevelSilent LogLevel = iota
	LogLevelVerbose
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

type ResolvePolicy uint8

const (
	// Any import that can't be resolved fails the build
	ResolveStrict ResolvePolicy = iota

	// Imports that can't be resolved are reported as warnings and bound to
	// an empty object
	ResolveTolerant
)

type Location struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type Message struct {
	Text     string
	Location *Location
}

type StdinOptions struct {
	Contents   string
	ResolveDir string
	Sourcefile string
}

////////////////////////////////////////////////////////////////////////////////
// Build API

type BuildOptions struct {
	Color      StderrColor
	ErrorLimit int
	LogLevel   LogLevel

	AbsWorkingDir string
	EntryPoints   []string
	Stdin         *StdinOptions
	ResolvePolicy ResolvePolicy

	Outfile string

	// Write the bundle to "Outfile" in addition to returning it
	Write bool
}

type BuildStatus uint8

const (
	BuildSucceeded BuildStatus = iota
	BuildFailed
	BuildCancelled
)

func (status BuildStatus) String() string {
	switch status {
	case BuildSucceeded:
		return "succeeded"
	case BuildFailed:
		return "failed"
	case BuildCancelled:
		return "cancelled"
	default:
		panic("Internal error")
	}
}

type BuildResult struct {
	Status   BuildStatus
	Errors   []Message
	Warnings []Message

	// Only set when the build succeeded
	OutputJS []byte

	// The files the bundle was built from, sorted
	Files []string
}

func Build(ctx context.Context, options BuildOptions) BuildResult {
	return buildImpl(ctx, fs.RealFS(), nil, options)
}

////////////////////////////////////////////////////////////////////////////////
// Watch API

type WatchOptions struct {
	// How long to wait after the last change before rebuilding
	Debounce time.Duration

	// Called with the result of the initial build and of every rebuild
	OnRebuild func(BuildResult)
}

// Watch builds once and then rebuilds every time one of the files that went
// into the previous build changes. It blocks until "ctx" is done, at which
// point it returns nil.
func Watch(ctx context.Context, options BuildOptions, watchOptions WatchOptions) error {
	return watchImpl(ctx, fs.RealFS(), options, watchOptions)
}
