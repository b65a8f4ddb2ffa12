// Package help holds the user-facing help texts shared by all transports.
//
// Texts are written in Markdown. Chat-like transports send them as-is;
// [HTML] renders them with goldmark for the HTTP API.
package help

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Command is a bot command.
type Command struct {
	Name        string
	Description string
}

// Commands lists the commands understood by the dialogue bot.
var Commands = []Command{
	{"help", "List of supported commands"},
	{"how", "Instructions for using the bot"},
	{"contact", "Contact the maintainers"},
	{"cancel", "Discard the graph you started"},
}

// CommandList renders [Commands] as a plain text list.
func CommandList() string {
	var b strings.Builder
	b.WriteString("These commands are supported:\n")
	for _, c := range Commands {
		fmt.Fprintf(&b, "/%s - %s\n", c.Name, c.Description)
	}
	return b.String()
}

// How explains the graph notation. The limits are interpolated so the text
// stays in sync with the parser.
func How(maxLines, maxLabel int) string {
	return fmt.Sprintf(`# Graph Visualizer Bot

This bot converts a graph written as a list of vertices into an image.

## How to use

1. Send a list of edges, one per line. Vertices are separated by a space:

   `+"```"+`
   A B
   B C
   C D
   `+"```"+`

2. Optionally add a third field as the edge label:

   `+"```"+`
   A B Edge1
   B C Edge2
   C D Edge3
   `+"```"+`

3. A line with a single name adds a standalone node:

   `+"```"+`
   A B
   C
   D
   `+"```"+`

4. Answer whether the graph is directed (Y/n) and the bot replies with a PNG image.

## Limits

- At most %d lines per message.
- At most %d characters per node name or label.
`, maxLines, maxLabel)
}

// Contact returns the contact text, or a default pointing to the help
// command when contact is empty.
func Contact(contact string) string {
	if strings.TrimSpace(contact) == "" {
		return "No contact information configured. Use /help to see what the bot can do."
	}
	return contact
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders Markdown source to HTML.
func HTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
