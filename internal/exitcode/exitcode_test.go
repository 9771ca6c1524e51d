package exitcode_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/esmpack/esmpack/internal/exitcode"
)

func TestGet(t *testing.T) {
	base := exitcode.Set(errors.New(""), 4)
	wrapped := fmt.Errorf("wrapping: %w", base)

	testCases := map[string]struct {
		error
		int
	}{
		"nil":       {nil, 0},
		"default":   {errors.New(""), 1},
		"cancelled": {fmt.Errorf("build: %w", context.Canceled), 130},
		"set":       {exitcode.Set(errors.New(""), 3), 3},
		"wrapped":   {wrapped, 4},
		"reported":  {exitcode.Reported(130), 130},
		"set-nil":   {exitcode.Set(nil, 1), 1},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			err := tc.error
			want := tc.int
			got := exitcode.Get(err)
			if got != want {
				t.Errorf("%v: %d != %d", err, got, want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	t.Run("same-message", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 2)
		got := err.Error()
		want := coder.Error()
		if got != want {
			t.Errorf("error message %q != %q", got, want)
		}
	})
	t.Run("keep-chain", func(t *testing.T) {
		err := errors.New("hello")
		coder := exitcode.Set(err, 3)

		if !errors.Is(coder, err) {
			t.Errorf("broken chain: %v is not %v", coder, err)
		}
		if exitcode.IsReported(coder) {
			t.Errorf("%v should still be printed", coder)
		}
	})
}

func TestReported(t *testing.T) {
	err := fmt.Errorf("watch: %w", exitcode.Reported(130))
	if !exitcode.IsReported(err) {
		t.Errorf("%v should count as reported", err)
	}
	if got := exitcode.Reported(1).Error(); got != "exit status 1" {
		t.Errorf("unexpected message %q", got)
	}
}
