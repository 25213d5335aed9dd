package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the labelforge HTTP API",
		Long: `Run the labelforge HTTP API.

The server exposes the record collection and the export pipeline over
JSON endpoints. With mongo_uri set in the config, collections are stored
in MongoDB so several instances can share state; with redis_addr set,
rendered images are cached in Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := server.New(st, c.newExporter(ctx), c.cfg, c.Logger)
	printInfo("Serving on %s", addr)
	return srv.ListenAndServe(ctx, addr)
}
