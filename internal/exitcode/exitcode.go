package exitcode

import (
	"context"
	"errors"
	"strconv"
)

const (
	Success = 0
	Failure = 1

	// The shell convention for a process stopped by SIGINT
	Cancelled = 130
)

// Coder is an interface to control what value Get returns.
type Coder interface {
	error
	ExitCode() int
}

// Get gets the exit code associated with an error. Cases:
//
//	nil => 0
//	errors implementing Coder => value returned by ExitCode
//	context.Canceled => 130
//	all other errors => 1
func Get(err error) int {
	if err == nil {
		return Success
	}

	if coder := Coder(nil); errors.As(err, &coder) {
		return coder.ExitCode()
	}

	if errors.Is(err, context.Canceled) {
		return Cancelled
	}

	return Failure
}

// Set wraps an error with a particular exit code. A nil error
// becomes one that has already been reported, see Reported.
func Set(err error, code int) error {
	if err == nil {
		return Reported(code)
	}
	return coder{err, code}
}

// Reported returns an error that only carries an exit code. It is used
// when the failure has already been shown to the user, such as a build
// whose errors were printed by the log.
func Reported(code int) error {
	return reported(code)
}

// IsReported is true if nothing about "err" is left to print
func IsReported(err error) bool {
	var r reported
	return errors.As(err, &r)
}

var _ Coder = coder{}
var _ Coder = reported(0)

type coder struct {
	error
	int
}

func (co coder) ExitCode() int {
	return co.int
}

func (co coder) Unwrap() error {
	return co.error
}

type reported int

func (r reported) Error() string {
	return "exit status " + strconv.Itoa(int(r))
}

func (r reported) ExitCode() int {
	return int(r)
}
