package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphbot/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	graphOpts
	output  string // output file path; derived from the input when empty
	format  string // png, svg, jpg or dot
	backend string // graphviz or exec; overrides the config
	noCache bool   // bypass the artifact cache
}

// renderCommand creates the render command for generating images.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render graph notation to an image",
		Long: `Render graph notation to PNG, SVG or JPG with Graphviz.

Input is read from file, or stdin when file is omitted or "-". The output
defaults to the input name with the format's extension, or graph.<format>
for stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	opts.graphOpts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, svg, jpg, dot (default from config)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "renderer: graphviz (in-process) or exec (dot binary)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "do not use the rendered image cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg := c.cfg
	if opts.backend != "" {
		cfg.Render.Backend = opts.backend
	}
	if opts.format != "" {
		cfg.Render.Format = opts.format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	rcfg := cfg.Render
	format, err := render.ParseFormat(rcfg.Format)
	if err != nil {
		return err
	}

	text, input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	g, err := c.parse(ctx, text, &opts.graphOpts)
	if err != nil {
		return err
	}

	renderer, closeRenderer, err := newRenderer(ctx, rcfg, opts.noCache, logger)
	if err != nil {
		return err
	}
	defer closeRenderer()

	prog := newProgress(logger)
	data, err := renderWithSpinner(ctx, renderer, g.ToDOT(), format)
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	prog.done("Rendered " + path)

	printSuccess("Rendered %s", StyleHighlight.Render(string(format)))
	printFile(path)
	printStats(g.NodeCount(), g.EdgeCount(), len(data))
	return nil
}

// renderWithSpinner renders while showing a spinner on stderr.
func renderWithSpinner(ctx context.Context, r render.Renderer, doc string, format render.Format) ([]byte, error) {
	spin := newSpinnerWithContext(ctx, "Rendering "+string(format)+"...")
	spin.Start()
	defer spin.Stop()
	return r.Render(ctx, doc, format)
}

// outputPath derives the output file from the flag and input names.
func outputPath(output, input string, format render.Format) string {
	if output != "" {
		return output
	}
	if input == "" {
		return "graph." + string(format)
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + string(format)
}
