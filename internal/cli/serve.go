package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geomcloze/pkg/api"
	"github.com/matzehuels/geomcloze/pkg/cache"
	"github.com/matzehuels/geomcloze/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

Endpoints:
  GET  /healthz        liveness and version
  POST /v1/render      render a scene document (?format=svg|png)
  POST /v1/topology    draw the ownership tree (?format=dot|svg|png)
  POST /v1/normalize   repair a document and return it

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string, noCache bool) error {
	store, err := c.newCache(noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"), c.Logger)
	runner.SceneOptions = c.Config.SceneOptions()
	runner.TTL = c.Config.Cache.TTL
	defer runner.Close()

	srv := api.New(runner, api.WithLogger(c.Logger))
	return api.ListenAndServe(cmd.Context(), addr, c.Config.Server.ReadTimeout, srv.Handler(), c.Logger)
}
