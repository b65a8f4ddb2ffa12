package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphbot/internal/server"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API: stateless /v1/dot and /v1/render endpoints plus
dialogue sessions under /v1/sessions, backed by the configured session
store and renderer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			b, err := newBot(ctx, c.cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			scfg := server.Config{
				Addr:         c.cfg.Server.Addr,
				ReadTimeout:  c.cfg.Server.ReadTimeout,
				WriteTimeout: c.cfg.Server.WriteTimeout,
			}
			if addr != "" {
				scfg.Addr = addr
			}
			return server.New(b.Bot, scfg, logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	return cmd
}
