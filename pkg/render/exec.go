package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// DefaultDotPath is the Graphviz binary looked up on PATH.
const DefaultDotPath = "dot"

// Exec renders documents with an external Graphviz binary.
type Exec struct {
	// Path is the binary to run. Defaults to DefaultDotPath.
	Path string

	// Args are extra arguments passed before the -T flag.
	Args []string
}

// NewExec creates a renderer that runs the binary at path.
func NewExec(path string) *Exec {
	if path == "" {
		path = DefaultDotPath
	}
	return &Exec{Path: path}
}

// Available reports whether the binary can be found.
func (r *Exec) Available() bool {
	_, err := exec.LookPath(r.path())
	return err == nil
}

// Render feeds document to the binary's stdin and returns its stdout.
func (r *Exec) Render(ctx context.Context, document string, format Format) ([]byte, error) {
	return instrument(ctx, document, format, func() ([]byte, error) {
		return r.run(ctx, document, format)
	})
}

func (r *Exec) run(ctx context.Context, document string, format Format) ([]byte, error) {
	if !r.Available() {
		return nil, errors.New(errors.ErrCodeRenderFailed,
			"graphviz binary %q not found: install graphviz to render %s output", r.path(), format)
	}

	args := append(append([]string{}, r.Args...), "-T"+string(format))
	cmd := exec.CommandContext(ctx, r.path(), args...)
	cmd.Stdin = strings.NewReader(document)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err,
			"%s -T%s: %s", r.path(), format, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (r *Exec) path() string {
	if r.Path == "" {
		return DefaultDotPath
	}
	return r.Path
}

var _ Renderer = (*Exec)(nil)
