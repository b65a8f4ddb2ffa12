package graph

import (
	"strings"
	"unicode"

	"github.com/matzehuels/graphbot/pkg/errors"
)

const (
	// MaxLines is the maximum number of input lines, blank lines included.
	MaxLines = 50

	// MaxLabelLength is the maximum length of a node label, edge endpoint or
	// edge label in grapheme clusters.
	MaxLabelLength = 10

	// maxFields is the number of tokens a line is split into at most.
	maxFields = 3
)

// Layout engines picked by [LayoutFor].
const (
	DefaultLayout   = "dot"
	CompactLayout   = "circo"
	LargeLayout     = "neato"
	CompactMaxLines = 10
)

// TryParse replaces the graph's entities with those declared in text.
//
// The input is rejected with errors.ErrCodeTooManyLines when it has more
// than [MaxLines] lines and with errors.ErrCodeLabelTooLong when a token is
// longer than [MaxLabelLength] grapheme clusters. On failure the graph is
// left empty; entities are only committed once every line has been
// validated.
func (g *Graph) TryParse(text string) error {
	g.Reset()

	lines := strings.Split(text, "\n")
	if len(lines) > MaxLines {
		return errors.New(errors.ErrCodeTooManyLines,
			"input has %d lines (max %d)", len(lines), MaxLines)
	}

	var (
		nodes []Node
		edges []Edge
	)
	for i, line := range lines {
		fields := SplitFields(line)
		if len(fields) == 0 {
			continue
		}
		if err := checkLengths(i+1, fields); err != nil {
			return err
		}

		switch len(fields) {
		case 1:
			nodes = append(nodes, Node{Label: fields[0]})
		case 2:
			edges = append(edges, Edge{From: fields[0], To: fields[1]})
		case 3:
			edges = append(edges, Edge{From: fields[0], To: fields[1], Label: fields[2]})
		}
	}

	g.nodes = nodes
	g.edges = edges
	return nil
}

// Parse builds a graph with cfg and parses text into it.
func Parse(text string, cfg Config) (*Graph, error) {
	g := New(cfg)
	if err := g.TryParse(text); err != nil {
		return nil, err
	}
	return g, nil
}

func checkLengths(line int, fields []string) error {
	for _, f := range fields {
		if n := DisplayLength(f); n > MaxLabelLength {
			return errors.Syntax(errors.ErrCodeLabelTooLong, line, f,
				"%q is %d characters long (max %d)", f, n, MaxLabelLength)
		}
	}
	return nil
}

// SplitFields trims line and splits it into at most three tokens. The first
// two runs of whitespace separate tokens; the remainder, including any
// whitespace inside it, is returned as the third token. A blank line yields
// no tokens.
func SplitFields(line string) []string {
	rest := strings.TrimSpace(line)
	if rest == "" {
		return nil
	}

	fields := make([]string, 0, maxFields)
	for len(fields) < maxFields-1 {
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			break
		}
		fields = append(fields, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	return append(fields, rest)
}

// CountLines returns the number of lines in text as counted by
// [Graph.TryParse]: the number of newline characters plus one.
func CountLines(text string) int {
	return strings.Count(text, "\n") + 1
}

// LayoutFor picks a layout engine by input size: [CompactLayout] for inputs
// of at most [CompactMaxLines] lines, [LargeLayout] otherwise.
func LayoutFor(text string) string {
	return LayoutForLines(CountLines(text), CompactMaxLines, CompactLayout, LargeLayout)
}

// LayoutForLines returns compact when lines <= maxCompact and large otherwise.
func LayoutForLines(lines, maxCompact int, compact, large string) string {
	if lines <= maxCompact {
		return compact
	}
	return large
}
