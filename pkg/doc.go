// Package pkg provides the core libraries for Graphbot.
//
// # Overview
//
// Graphbot turns a line-oriented graph notation into Graphviz documents and
// images. Each input line is a node ("A"), an edge ("A B") or a labelled
// edge ("A B likes"). The pkg directory is organized into these areas:
//
//  1. [graph] - Parsing the notation and serializing DOT
//  2. [render] - Turning DOT into PNG, SVG or JPG
//  3. [dialogue] - The conversational bot and its session stores
//  4. [cache] - Artifact caching (file, Redis) and retry helpers
//  5. [config] - File and environment configuration
//
// # Architecture
//
// The typical data flow through Graphbot:
//
//	Chat message / HTTP request / Kafka record
//	         ↓
//	    [dialogue] package (session step, direction question)
//	         ↓
//	    [graph] package (parse + DOT document)
//	         ↓
//	    [render] package (Graphviz, optionally cached)
//	         ↓
//	    PNG/SVG/JPG reply
//
// # Quick Start
//
// Translate text to DOT and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/graphbot/pkg/graph"
//	    "github.com/matzehuels/graphbot/pkg/render"
//	)
//
//	g, err := graph.Parse("A B\nB C likes", graph.Config{Directed: true, Layout: "circo"})
//	if err != nil {
//	    return err
//	}
//	png, err := render.NewGraphviz().Render(context.Background(), g.ToDOT(), render.FormatPNG)
//
// Run the dialogue for one chat:
//
//	bot := dialogue.NewBot(dialogue.NewMemoryStore(dialogue.DefaultTTL), render.NewGraphviz(), dialogue.Options{}, nil)
//	reply, _ := bot.Handle(ctx, "chat-42", "A B")  // asks for the direction
//	reply, _ = bot.Handle(ctx, "chat-42", "y")     // reply.Image holds the PNG
//
// # Main Packages
//
// [graph] - The notation parser. Lines are split into at most three fields,
// names are limited by display width ([graph.DisplayLength]) and inputs by
// line count. A failed parse leaves the graph empty.
//
// [render] - [render.Graphviz] renders in-process through WebAssembly,
// [render.Exec] shells out to the dot binary, and [render.Cached] stores
// artifacts by document hash.
//
// [dialogue] - [dialogue.Bot] drives the two-step conversation. Sessions
// live in memory, files, Redis, MongoDB or SQLite behind [dialogue.Store].
//
// [cache] - Cache backends and the [cache.RetryWithBackoff] helper used for
// transient failures.
//
// [errors] - Coded errors shared by the HTTP and Kafka surfaces.
//
// [observability] - Hooks for parse, render, cache and transport events.
//
// [help] - Help, how-to and contact texts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/graph/...              # Specific package
//	go test -run Example                 # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/render
// [dialogue]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/dialogue
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/observability
// [help]: https://pkg.go.dev/github.com/matzehuels/graphbot/pkg/help
package pkg
