package cli

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tiletree/internal/server"
	"github.com/matzehuels/tiletree/pkg/observability"
	"github.com/matzehuels/tiletree/pkg/sim"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, scenario string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the debug HTTP API",
		Long: `Serve starts an HTTP API over a simulated compositor. Windows and monitors
can be added and removed with plain HTTP calls, and the resulting tree is
available as JSON, DOT or ASCII art. Prometheus metrics are served on /metrics.

With --scenario the host is prepared by replaying a scenario first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), addr, scenario)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&scenario, "scenario", "", "scenario file to replay before serving")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, addr, scenario string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewPrometheusHooks(reg)

	hooks, closeHooks := c.engineHooks(ctx, metrics)
	defer closeHooks()
	opts := c.engineOptions(hooks)

	s := sim.New(c.Config, opts...)
	if scenario != "" {
		sc, err := c.loadScenario(scenario)
		if err != nil {
			return err
		}
		if s, err = sim.Run(ctx, sc, c.Config, nil, opts...); err != nil {
			return err
		}
		c.Logger.Info("replayed scenario", "path", scenario, "steps", len(sc.Steps))
	}

	printSuccess(w, "Serving the debug API")
	printKeyValue(w, "address", addr)
	printKeyValue(w, "tree", "http://"+addr+"/tree")
	printKeyValue(w, "metrics", "http://"+addr+"/metrics")
	if scenario != "" {
		printDetail(w, "host prepared from %s", scenario)
	}

	srv := server.New(s,
		server.WithLogger(c.Logger),
		server.WithHTTPHooks(metrics),
		server.WithGatherer(reg),
	)
	return srv.ListenAndServe(ctx, addr)
}
