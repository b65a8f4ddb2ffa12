package graph

import "slices"

// Node is a standalone vertex declared by a single-token line.
type Node struct {
	Label string `json:"label"`
}

// Edge connects two vertex names. An empty Label means the edge is unlabelled.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Config holds the rendering configuration of a [Graph].
type Config struct {
	// Directed selects "digraph" and "->" instead of "graph" and "--".
	Directed bool

	// Layout names the Graphviz layout engine (dot, neato, circo, ...).
	// Defaults to [DefaultLayout] when empty.
	Layout string

	// LayoutSettings is copied verbatim into the document body, followed by
	// a newline when it does not already end with one.
	LayoutSettings string

	// NodeSettings is copied verbatim into the default node attribute list,
	// e.g. `width=0.5 height=0.5 fontname="Arial"`.
	NodeSettings string
}

// Graph holds the entities of one parsed document together with its
// rendering configuration. The configuration is fixed at construction and
// the entities are replaced by every call to [Graph.TryParse].
type Graph struct {
	cfg   Config
	nodes []Node
	edges []Edge
}

// New creates an empty graph with the given configuration.
func New(cfg Config) *Graph {
	if cfg.Layout == "" {
		cfg.Layout = DefaultLayout
	}
	return &Graph{cfg: cfg}
}

// Config returns the rendering configuration.
func (g *Graph) Config() Config { return g.cfg }

// Directed reports whether the graph renders as a digraph.
func (g *Graph) Directed() bool { return g.cfg.Directed }

// Nodes returns the standalone nodes in input order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns the edges in input order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of standalone nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Reset drops all nodes and edges, keeping the configuration.
func (g *Graph) Reset() {
	g.nodes = nil
	g.edges = nil
}
