package graph

import (
	"fmt"

	"github.com/esmpack/esmpack/internal/logger"
)

// ContentError means a module's text could not be obtained. Hint names the
// provider that failed (for example "file system") so the message tells the
// user where to look.
type ContentError struct {
	Ref  ModuleRef
	Hint string
	Err  error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("could not read %s from the %s: %v", e.Ref, e.Hint, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	Ref ModuleRef
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RewriteError is a construct that can't be bundled safely
type RewriteError struct {
	Ref    ModuleRef
	Source *logger.Source
	Range  logger.Range
	Reason string
}

func (e *RewriteError) Error() string {
	if loc := logger.LocationOrNil(e.Source, e.Range); loc != nil {
		return fmt.Sprintf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Ref, e.Reason)
}

type ResolveError struct {
	Specifier string
	Referrer  ModuleRef
	Reason    string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("could not resolve %q from %s: %s", e.Specifier, e.Referrer, e.Reason)
}
