package test

import (
	"strings"

	"github.com/kylelemons/godebug/diff"
)

// Diff renders a unified-style line diff from "expected" to "observed". Lines
// prefixed with "-" are missing from the observed text and lines prefixed
// with "+" are unexpected additions.
func Diff(expected string, observed string) string {
	return diff.Diff(strings.TrimSuffix(expected, "\n"), strings.TrimSuffix(observed, "\n"))
}
