package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/graphbot/pkg/config"
	"github.com/matzehuels/graphbot/pkg/render"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format render.Format
		want   string
	}{
		{"explicit output", "out.png", "graph.txt", render.FormatPNG, "out.png"},
		{"derived from input", "", "graphs/deps.txt", render.FormatSVG, "graphs/deps.svg"},
		{"input without extension", "", "deps", render.FormatJPG, "deps.jpg"},
		{"stdin", "", "", render.FormatPNG, "graph.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
				t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
			}
		})
	}
}

func TestGraphConfig(t *testing.T) {
	cfg := config.Default().Graph

	tests := []struct {
		name       string
		opts       graphOpts
		text       string
		wantLayout string
		wantNodes  string
	}{
		{"short input uses compact layout", graphOpts{}, "A B", "circo", cfg.NodeSettings},
		{"long input uses large layout", graphOpts{}, "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11", "neato", cfg.NodeSettings},
		{"explicit layout wins", graphOpts{layout: "dot"}, "A B", "dot", cfg.NodeSettings},
		{"explicit node settings win", graphOpts{nodeSettings: "shape=box"}, "A", "circo", "shape=box"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := tt.opts.graphConfig(tt.text, cfg)
			if gc.Layout != tt.wantLayout {
				t.Errorf("Layout = %q, want %q", gc.Layout, tt.wantLayout)
			}
			if gc.NodeSettings != tt.wantNodes {
				t.Errorf("NodeSettings = %q, want %q", gc.NodeSettings, tt.wantNodes)
			}
		})
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(3, 2, 2048)
	for _, want := range []string{"3 nodes", "2 edges", "2.0 KB"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, want it to contain %q", line, want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{512, "512 B"},
		{1536, "1.5 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
