// Package graph translates graphbot's line-oriented graph notation into
// Graphviz DOT documents.
//
// # Notation
//
// Each non-blank line declares one entity. Tokens are separated by runs of
// whitespace and everything after the second run is a single token, so edge
// labels may contain spaces:
//
//	A            a standalone node "A"
//	A B          an edge from "A" to "B"
//	A B uses it  an edge from "A" to "B" labelled "uses it"
//
// Edge endpoints need not be declared as nodes first; Graphviz creates
// unknown endpoints implicitly.
//
// # Limits
//
// Input is limited to [MaxLines] lines (blank lines included) and every
// token to [MaxLabelLength] user-perceived characters, measured in grapheme
// clusters by [DisplayLength]. Violations are reported as *errors.Error
// values with code [errors.ErrCodeTooManyLines] or [errors.ErrCodeLabelTooLong].
//
// # Usage
//
//	g := graph.New(graph.Config{
//	    Directed:     true,
//	    Layout:       graph.LayoutFor(text),
//	    NodeSettings: `width=0.5 height=0.5 fontname="Arial"`,
//	})
//	if err := g.TryParse(text); err != nil {
//	    return err
//	}
//	dot := g.ToDOT()
//
// A [Graph] is not safe for concurrent use. Use one instance per request.
//
// [errors.ErrCodeTooManyLines]: github.com/matzehuels/graphbot/pkg/errors.ErrCodeTooManyLines
// [errors.ErrCodeLabelTooLong]: github.com/matzehuels/graphbot/pkg/errors.ErrCodeLabelTooLong
package graph
