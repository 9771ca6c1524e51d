package test

import (
	"fmt"
	"testing"

	"github.com/esmpack/esmpack/internal/logger"
)

func AssertEqual(t *testing.T, observed interface{}, expected interface{}) {
	t.Helper()
	if observed != expected {
		t.Fatalf("%s != %s", fmt.Sprint(observed), fmt.Sprint(expected))
	}
}

// AssertEqualWithDiff compares two blocks of text and prints a line diff on
// mismatch, which is much easier to read than two full bundles side by side.
func AssertEqualWithDiff(t *testing.T, observed string, expected string) {
	t.Helper()
	if observed != expected {
		t.Fatal("\n" + Diff(expected, observed))
	}
}

func SourceForTest(contents string) logger.Source {
	return logger.Source{
		Index:      0,
		KeyPath:    logger.Path{Text: "<stdin>", Namespace: "inline"},
		PrettyPath: "<stdin>",
		Contents:   contents,
	}
}
