package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/graphbot/pkg/errors"
)

func TestLayoutOf(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"quoted", "graph {\n\tlayout=\"circo\"\n}", "circo"},
		{"unquoted", "digraph {\n  layout = neato;\n}", "neato"},
		{"missing", "digraph {\n\t\"A\" -> \"B\"\n}", ""},
		{"label mentioning layout", "digraph {\n\t\"A\" -> \"B\" [label=\"layout=x\"]\n}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LayoutOf(tt.doc); got != tt.want {
				t.Errorf("LayoutOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(normalizeViewBox([]byte(tt.svg)))
			if got != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGraphvizRender(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in-process graphviz render in short mode")
	}
	ctx := context.Background()
	doc := "digraph {\n\tlayout=\"circo\"\n\tnode [shape=circle]\n\t\"A\" -> \"B\" [label=\"x\"]\n}\n"

	png, err := NewGraphviz().Render(ctx, doc, FormatPNG)
	if err != nil {
		t.Fatalf("Render(png) error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("Render(png) did not produce a PNG: % x", png[:min(8, len(png))])
	}

	svg, err := NewGraphviz().Render(ctx, doc, FormatSVG)
	if err != nil {
		t.Fatalf("Render(svg) error = %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("Render(svg) did not produce an SVG")
	}
}

func TestGraphvizRenderInvalidDocument(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in-process graphviz render in short mode")
	}
	_, err := NewGraphviz().Render(context.Background(), "digraph {", FormatPNG)
	if !errors.Is(err, errors.ErrCodeRenderFailed) {
		t.Errorf("Render() error = %v, want %v", err, errors.ErrCodeRenderFailed)
	}
}
