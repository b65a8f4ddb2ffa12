package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// Graphviz renders documents in-process using go-graphviz.
type Graphviz struct{}

// NewGraphviz creates an in-process renderer.
func NewGraphviz() *Graphviz {
	return &Graphviz{}
}

// Render renders document with the layout engine named in its layout
// attribute, falling back to dot.
func (r *Graphviz) Render(ctx context.Context, document string, format Format) ([]byte, error) {
	return instrument(ctx, document, format, func() ([]byte, error) {
		return r.render(ctx, document, format)
	})
}

func (r *Graphviz) render(ctx context.Context, document string, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	if layout := LayoutOf(document); layout != "" {
		gv.SetLayout(graphviz.Layout(layout))
	}

	g, err := graphviz.ParseBytes([]byte(document))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat(format), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

func gvFormat(f Format) graphviz.Format {
	switch f {
	case FormatSVG:
		return graphviz.SVG
	case FormatJPG:
		return graphviz.JPG
	default:
		return graphviz.PNG
	}
}

var layoutRe = regexp.MustCompile(`(?m)^\s*layout\s*=\s*"?([A-Za-z_]+)"?`)

// LayoutOf returns the graph-level layout engine named in document, or ""
// when there is none.
func LayoutOf(document string) string {
	m := layoutRe.FindStringSubmatch(document)
	if m == nil {
		return ""
	}
	return m[1]
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element so the image scales from
// the origin with explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

var _ Renderer = (*Graphviz)(nil)
