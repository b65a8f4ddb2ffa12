package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// fakeDot writes a shell script that echoes its -T flag and stdin.
func fakeDot(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "dot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecRender(t *testing.T) {
	r := NewExec(fakeDot(t, `printf '%s:' "$1"; cat`))

	data, err := r.Render(context.Background(), "graph {}", FormatPNG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got, want := string(data), "-Tpng:graph {}"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestExecRenderExtraArgs(t *testing.T) {
	r := NewExec(fakeDot(t, `echo "$@"`))
	r.Args = []string{"-Gdpi=150"}

	data, err := r.Render(context.Background(), "graph {}", FormatSVG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got, want := string(data), "-Gdpi=150 -Tsvg\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestExecRenderFailure(t *testing.T) {
	r := NewExec(fakeDot(t, `echo "syntax error in line 1" >&2; exit 1`))

	_, err := r.Render(context.Background(), "graph {", FormatPNG)
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Fatalf("Render() error = %v, want %v", err, errors.ErrCodeRenderFailed)
	}
	if msg := errors.UserMessage(err); !strings.Contains(msg, "syntax error") {
		t.Errorf("error message should include stderr: %q", msg)
	}
}

func TestExecMissingBinary(t *testing.T) {
	r := NewExec(filepath.Join(t.TempDir(), "no-such-dot"))
	if r.Available() {
		t.Fatal("Available() = true for missing binary")
	}
	_, err := r.Render(context.Background(), "graph {}", FormatPNG)
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("Render() error = %v, want %v", err, errors.ErrCodeRenderFailed)
	}
}

func TestExecDefaultPath(t *testing.T) {
	if got := NewExec("").Path; got != DefaultDotPath {
		t.Errorf("NewExec(\"\").Path = %q, want %q", got, DefaultDotPath)
	}
}
