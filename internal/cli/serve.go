package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symbolscape/symbolscape/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API server",
		Long: `Run the layout HTTP API server.

The server registers graphs under /v1/graphs, keeps an interaction session
per graph, and serves layout, style, override, and render endpoints. Style
interactions (hover, select, legend toggles) recompute only the overlay;
geometry never moves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv, err := server.New(cfg, runner, c.Logger)
			if err != nil {
				return fmt.Errorf("initialize server: %w", err)
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
