package render

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/graphbot/pkg/errors"
	"github.com/matzehuels/graphbot/pkg/observability"
)

// Format is an output format.
type Format string

// Supported output formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
	FormatJPG Format = "jpg"
	FormatDOT Format = "dot" // the document itself
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatJPG, FormatDOT}

// ParseFormat converts a user-supplied format name, ignoring case and a
// leading dot. "jpeg" is accepted as an alias of "jpg".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	if f == "jpeg" {
		f = FormatJPG
	}
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %s (must be 'png', 'svg', 'jpg', or 'dot')", s)
	}
	return f, nil
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJPG:
		return "image/jpeg"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Renderer renders a DOT document to the given format.
type Renderer interface {
	Render(ctx context.Context, document string, format Format) ([]byte, error)
}

// Func adapts a function to the Renderer interface.
type Func func(ctx context.Context, document string, format Format) ([]byte, error)

// Render calls f.
func (f Func) Render(ctx context.Context, document string, format Format) ([]byte, error) {
	return f(ctx, document, format)
}

// instrument validates the format, short-circuits FormatDOT and reports
// the render to the pipeline hooks.
func instrument(ctx context.Context, document string, format Format, fn func() ([]byte, error)) ([]byte, error) {
	if !slices.Contains(Formats, format) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
	if format == FormatDOT {
		return []byte(document), nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(format))
	start := time.Now()
	data, err := fn()
	hooks.OnRenderComplete(ctx, string(format), len(data), time.Since(start), err)
	return data, err
}
