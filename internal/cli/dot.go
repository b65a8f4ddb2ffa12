package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphbot/pkg/config"
	"github.com/matzehuels/graphbot/pkg/graph"
)

// graphOpts holds the flags shared by dot and render.
type graphOpts struct {
	directed       bool
	layout         string // empty picks the compact or large layout by line count
	nodeSettings   string
	layoutSettings string
}

func (o *graphOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.directed, "directed", "d", false, "draw directed edges (->)")
	cmd.Flags().StringVarP(&o.layout, "layout", "l", "", "graphviz layout engine (default: by line count)")
	cmd.Flags().StringVar(&o.nodeSettings, "node-settings", "", "node attribute list (default from config)")
	cmd.Flags().StringVar(&o.layoutSettings, "layout-settings", "", "extra DOT statements placed after the node settings")
}

// graphConfig resolves flags over the configured defaults for text.
func (o *graphOpts) graphConfig(text string, cfg config.GraphConfig) graph.Config {
	gc := graph.Config{
		Directed:       o.directed,
		Layout:         o.layout,
		NodeSettings:   o.nodeSettings,
		LayoutSettings: o.layoutSettings,
	}
	if gc.Layout == "" {
		gc.Layout = graph.LayoutForLines(graph.CountLines(text), cfg.CompactMaxLines, cfg.CompactLayout, cfg.LargeLayout)
	}
	if gc.NodeSettings == "" {
		gc.NodeSettings = cfg.NodeSettings
	}
	if gc.LayoutSettings == "" {
		gc.LayoutSettings = cfg.LayoutSettings
	}
	return gc
}

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		opts   graphOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Translate graph notation to a DOT document",
		Long: `Translate graph notation to a Graphviz DOT document.

Each input line is a node ("A"), an edge ("A B") or a labelled edge
("A B some label"). Input is read from file, or stdin when file is omitted
or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			g, err := c.parse(cmd.Context(), text, &opts)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return g.WriteDOT(cmd.OutOrStdout())
			}
			f, err := openOutput(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := g.WriteDOT(f); err != nil {
				return err
			}
			printSuccess("Wrote %s", output)
			printNextStep("Render it", "dot -Tpng "+output+" -o "+strings.TrimSuffix(output, filepath.Ext(output))+".png")
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

// parse translates text with the CLI's graph configuration.
func (c *CLI) parse(ctx context.Context, text string, opts *graphOpts) (*graph.Graph, error) {
	logger := loggerFromContext(ctx)

	g, err := graph.Parse(text, opts.graphConfig(text, c.cfg.Graph))
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed graph", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "layout", g.Config().Layout)
	return g, nil
}

// readInput reads the file named by args[0], or stdin. It returns the text
// and the input name ("" for stdin).
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", err
	}
	return string(data), args[0], nil
}

// openOutput creates the output file, truncating an existing one.
func openOutput(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
