package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestCLIAdapter(verbose bool) (*CLIErrorAdapter, *bytes.Buffer, *int) {
	var out bytes.Buffer
	code := -1
	a := NewCLIErrorAdapter(verbose, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	a.out = &out
	a.exit = func(c int) { code = c }
	return a, &out, &code
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a, _, _ := newTestCLIAdapter(false)

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("plain"), 1},
		{ConfigError("bad").Build(), 7},
		{ValidationError("bad").Build(), 2},
		{NetworkError("down").Build(), 8},
		{StorageError("disk").Build(), 11},
		{InternalError("oops").Build(), 10},
	}
	for _, tt := range tests {
		if got := a.ExitCodeFor(tt.err); got != tt.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCLIErrorAdapter_HandleConfigError(t *testing.T) {
	a, out, code := newTestCLIAdapter(false)

	a.HandleError(ConfigError(`Invalid pageUrlOverrides page id "nope"`).Build())

	if *code != 7 {
		t.Fatalf("expected exit code 7, got %d", *code)
	}
	if !strings.Contains(out.String(), `Invalid pageUrlOverrides page id "nope"`) {
		t.Fatalf("expected offending entry in output, got %q", out.String())
	}
}

func TestCLIErrorAdapter_InternalHiddenUnlessVerbose(t *testing.T) {
	quiet, _, _ := newTestCLIAdapter(false)
	if got := quiet.FormatError(InternalError("secret detail").Build()); strings.Contains(got, "secret detail") {
		t.Fatalf("internal detail leaked in quiet mode: %q", got)
	}
	verbose, _, _ := newTestCLIAdapter(true)
	if got := verbose.FormatError(InternalError("secret detail").Build()); !strings.Contains(got, "secret detail") {
		t.Fatalf("expected detail in verbose mode: %q", got)
	}
}
