package graph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/graphbot/pkg/errors"
)

func TestTryParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes []Node
		wantEdges []Edge
	}{
		{
			name:  "edges without labels",
			input: "A B\nB C\nC D",
			wantEdges: []Edge{
				{From: "A", To: "B"},
				{From: "B", To: "C"},
				{From: "C", To: "D"},
			},
		},
		{
			name:  "edges with labels",
			input: "A B Edge1\nB C Edge2",
			wantEdges: []Edge{
				{From: "A", To: "B", Label: "Edge1"},
				{From: "B", To: "C", Label: "Edge2"},
			},
		},
		{
			name:      "standalone nodes",
			input:     "A\nB\nC",
			wantNodes: []Node{{Label: "A"}, {Label: "B"}, {Label: "C"}},
		},
		{
			name:      "mixed nodes and edges keep order",
			input:     "A B\nC\nD",
			wantNodes: []Node{{Label: "C"}, {Label: "D"}},
			wantEdges: []Edge{{From: "A", To: "B"}},
		},
		{
			name:  "blank lines only",
			input: "\n\n\n",
		},
		{
			name:  "empty input",
			input: "",
		},
		{
			name:      "whitespace only lines are blank",
			input:     "   \n\t\nA\n  \t  ",
			wantNodes: []Node{{Label: "A"}},
		},
		{
			name:      "surrounding whitespace is trimmed",
			input:     "  A  \n\tB   C\t",
			wantNodes: []Node{{Label: "A"}},
			wantEdges: []Edge{{From: "B", To: "C"}},
		},
		{
			name:      "windows line endings",
			input:     "A B\r\nC\r\n",
			wantNodes: []Node{{Label: "C"}},
			wantEdges: []Edge{{From: "A", To: "B"}},
		},
		{
			name:      "label keeps inner whitespace",
			input:     "A  B   calls  it",
			wantEdges: []Edge{{From: "A", To: "B", Label: "calls  it"}},
		},
		{
			name:      "unicode tokens",
			input:     "Київ Львів потяг\nüber",
			wantNodes: []Node{{Label: "über"}},
			wantEdges: []Edge{{From: "Київ", To: "Львів", Label: "потяг"}},
		},
		{
			name:      "endpoints need not be declared",
			input:     "X Y",
			wantEdges: []Edge{{From: "X", To: "Y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Config{})
			if err := g.TryParse(tt.input); err != nil {
				t.Fatalf("TryParse() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantNodes, g.Nodes()); diff != "" {
				t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantEdges, g.Edges()); diff != "" {
				t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTryParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"51 blank lines", strings.Repeat("\n", 50), errors.ErrCodeTooManyLines},
		{"51 node lines", strings.Repeat("A\n", 50) + "B", errors.ErrCodeTooManyLines},
		{"too many lines with long label", strings.Repeat("\n", 60) + "ABCDEFGHIJKLMNOP", errors.ErrCodeTooManyLines},
		{"long node", "ABCDEFGHIJK", errors.ErrCodeLabelTooLong},
		{"long edge source", "ABCDEFGHIJK B", errors.ErrCodeLabelTooLong},
		{"long edge target", "A ABCDEFGHIJK", errors.ErrCodeLabelTooLong},
		{"long edge label", "A B ABCDEFGHIJK", errors.ErrCodeLabelTooLong},
		{"long label with spaces", "A B label that is long", errors.ErrCodeLabelTooLong},
		{"long token after valid lines", "A B\nC\nABCDEFGHIJK", errors.ErrCodeLabelTooLong},
		{"eleven combining clusters", strings.Repeat("e\u0301", 11), errors.ErrCodeLabelTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Config{})
			err := g.TryParse(tt.input)
			if err == nil {
				t.Fatal("TryParse() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("TryParse() code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if g.NodeCount() != 0 || g.EdgeCount() != 0 {
				t.Errorf("failed parse left %d nodes, %d edges; want empty graph", g.NodeCount(), g.EdgeCount())
			}
		})
	}
}

func TestTryParseLimitsInclusive(t *testing.T) {
	t.Run("exactly 50 lines", func(t *testing.T) {
		input := strings.Repeat("A\n", 49) + "A"
		g := New(Config{})
		if err := g.TryParse(input); err != nil {
			t.Fatalf("TryParse() error = %v", err)
		}
		if g.NodeCount() != 50 {
			t.Errorf("NodeCount() = %d, want 50", g.NodeCount())
		}
	})

	t.Run("exactly 10 characters", func(t *testing.T) {
		g := New(Config{})
		if err := g.TryParse("ABCDEFGHIJ KLMNOPQRST UVWXYZ0123"); err != nil {
			t.Fatalf("TryParse() error = %v", err)
		}
	})

	t.Run("10 clusters of 20 code points", func(t *testing.T) {
		label := strings.Repeat("e\u0301", 10)
		if n := len([]rune(label)); n != 20 {
			t.Fatalf("test label has %d code points, want 20", n)
		}
		g := New(Config{})
		if err := g.TryParse(label); err != nil {
			t.Fatalf("TryParse() error = %v", err)
		}
		if diff := cmp.Diff([]Node{{Label: label}}, g.Nodes()); diff != "" {
			t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTryParseErrorMessage(t *testing.T) {
	g := New(Config{})
	err := g.TryParse("A B\nC ABCDEFGHIJKL")
	if err == nil {
		t.Fatal("TryParse() error = nil, want error")
	}
	msg := errors.UserMessage(err)
	if !strings.Contains(msg, "line 2") {
		t.Errorf("message %q should name the line", msg)
	}
	if !strings.Contains(msg, "ABCDEFGHIJKL") {
		t.Errorf("message %q should name the token", msg)
	}
	if line := errors.LineOf(err); line != 2 {
		t.Errorf("LineOf() = %d, want 2", line)
	}
}

func TestTryParseResets(t *testing.T) {
	g := New(Config{Directed: true})
	if err := g.TryParse("A B\nC D\nE"); err != nil {
		t.Fatalf("first TryParse() error = %v", err)
	}
	if err := g.TryParse("X Y"); err != nil {
		t.Fatalf("second TryParse() error = %v", err)
	}
	if diff := cmp.Diff([]Edge{{From: "X", To: "Y"}}, g.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}

	if err := g.TryParse("ABCDEFGHIJKLMNOP"); err == nil {
		t.Fatal("third TryParse() error = nil, want error")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() after failure = %d, want 0", g.EdgeCount())
	}
}

func TestTokenCountDeterminesKind(t *testing.T) {
	g := New(Config{})
	if err := g.TryParse("A B"); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 0 || g.EdgeCount() != 1 {
		t.Errorf("two tokens: nodes=%d edges=%d, want 0/1", g.NodeCount(), g.EdgeCount())
	}

	if err := g.TryParse("A"); err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 1 || g.EdgeCount() != 0 {
		t.Errorf("one token: nodes=%d edges=%d, want 1/0", g.NodeCount(), g.EdgeCount())
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"\t\r", nil},
		{"A", []string{"A"}},
		{"  A  ", []string{"A"}},
		{"A B", []string{"A", "B"}},
		{"A \t B", []string{"A", "B"}},
		{"A B C", []string{"A", "B", "C"}},
		{"A B C D E", []string{"A", "B", "C D E"}},
		{"A B  C \t D", []string{"A", "B", "C \t D"}},
		{"A B", []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, SplitFields(tt.line)); diff != "" {
				t.Errorf("SplitFields(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 1},
		{"A", 1},
		{"A\nB", 2},
		{"A\n", 2},
		{"\n\n\n", 4},
	}

	for _, tt := range tests {
		if got := CountLines(tt.input); got != tt.want {
			t.Errorf("CountLines(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestLayoutFor(t *testing.T) {
	if got := LayoutFor("A B\nB C"); got != CompactLayout {
		t.Errorf("LayoutFor(small) = %q, want %q", got, CompactLayout)
	}
	if got := LayoutFor(strings.Repeat("A\n", 9) + "A"); got != CompactLayout {
		t.Errorf("LayoutFor(10 lines) = %q, want %q", got, CompactLayout)
	}
	if got := LayoutFor(strings.Repeat("A\n", 10) + "A"); got != LargeLayout {
		t.Errorf("LayoutFor(11 lines) = %q, want %q", got, LargeLayout)
	}
}

func TestParse(t *testing.T) {
	g, err := Parse("A B", Config{Directed: true, Layout: "circo"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !g.Directed() || g.Config().Layout != "circo" {
		t.Errorf("Parse() config = %+v", g.Config())
	}

	if _, err := Parse(strings.Repeat("\n", 51), Config{}); !errors.Is(err, errors.ErrCodeTooManyLines) {
		t.Errorf("Parse() error = %v, want %v", err, errors.ErrCodeTooManyLines)
	}
}
