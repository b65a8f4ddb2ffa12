package graph

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Edge operators per graph kind.
const (
	directedEdgeOp   = "->"
	undirectedEdgeOp = "--"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote renders s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// ToDOT serializes the graph to a Graphviz DOT document. Nodes are written
// before edges, each in input order. An empty graph yields a valid document
// with an empty body.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	_ = g.WriteDOT(&buf)
	return buf.String()
}

// WriteDOT writes the document produced by [Graph.ToDOT] to w.
func (g *Graph) WriteDOT(w io.Writer) error {
	var buf bytes.Buffer

	kind, op := "graph", undirectedEdgeOp
	if g.cfg.Directed {
		kind, op = "digraph", directedEdgeOp
	}

	buf.WriteString(kind + " {\n")
	fmt.Fprintf(&buf, "\tlayout=%s\n", quote(g.cfg.Layout))
	fmt.Fprintf(&buf, "\tnode [%s]\n", g.cfg.NodeSettings)
	if s := g.cfg.LayoutSettings; s != "" {
		buf.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			buf.WriteByte('\n')
		}
	}

	for _, n := range g.nodes {
		fmt.Fprintf(&buf, "\t%s\n", quote(n.Label))
	}
	for _, e := range g.edges {
		fmt.Fprintf(&buf, "\t%s %s %s [label=%s]\n", quote(e.From), op, quote(e.To), quote(e.Label))
	}

	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}
