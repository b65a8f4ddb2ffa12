// Package render turns DOT documents into images.
//
// # Overview
//
// The [Renderer] interface is the boundary between graphbot's text-to-DOT
// translation and Graphviz. Transports hand the document produced by
// graph.Graph.ToDOT to a renderer and deliver the returned bytes.
//
// Implementations:
//
//   - [Graphviz]: renders in-process with [github.com/goccy/go-graphviz]
//     (Graphviz compiled to WebAssembly), no system dependencies
//   - [Exec]: pipes the document to the dot binary's standard input and
//     reads the image from its standard output
//   - [Cached]: memoizes any renderer in a cache.Cache
//
// # Usage
//
//	r := render.NewCached(render.NewGraphviz(), fileCache, nil, logger)
//	png, err := r.Render(ctx, g.ToDOT(), render.FormatPNG)
//
// # Layout Engines
//
// The layout engine is taken from the document's graph-level layout
// attribute (layout="circo"). [Exec] leaves this to the dot binary;
// [Graphviz] extracts it and selects the engine explicitly.
//
// # Errors
//
// Failures are *errors.Error values with code errors.ErrCodeRenderFailed
// wrapping the underlying cause. Unsupported formats use
// errors.ErrCodeInvalidFormat.
package render
