package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sppgrowth/internal/server"
	"github.com/matzehuels/sppgrowth/pkg/observability"
	"github.com/matzehuels/sppgrowth/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string
	mongoURI string
	mongoDB  string
	noCache  bool
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var o serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mining API over HTTP",
		Long: `Serve the mining API over HTTP.

Runs are kept in memory unless a MongoDB URI is given. Results are cached
in Redis when [cache] redis_url is configured, otherwise on local disk.
Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("addr") {
				o.addr = c.Config.Server.Addr
			}
			if !flags.Changed("mongo-uri") {
				o.mongoURI = c.Config.Server.MongoURI
			}
			if !flags.Changed("mongo-db") {
				o.mongoDB = c.Config.Server.MongoDB
			}
			return c.runServe(withLogger(cmd.Context(), c.Logger), o)
		},
	}

	cmd.Flags().StringVar(&o.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&o.mongoURI, "mongo-uri", "", "MongoDB URI for run storage (in-memory if empty)")
	cmd.Flags().StringVar(&o.mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable result caching")

	return cmd
}

// runServe wires cache, store and metrics into a server and runs it until
// the context is cancelled.
func (c *CLI) runServe(ctx context.Context, o serveOpts) error {
	logger := loggerFromContext(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observability.Register(observability.NewPrometheus(reg))
	defer observability.Reset()

	runner, err := c.newRunner(ctx, o.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	var runs store.Store = store.NewMemory()
	backend := "memory"
	if o.mongoURI != "" {
		m, err := store.NewMongo(ctx, o.mongoURI, o.mongoDB)
		if err != nil {
			_ = runner.Close()
			return err
		}
		runs = m
		backend = "mongodb/" + o.mongoDB
	}

	srv := server.New(server.Options{
		Runner:   runner,
		Store:    runs,
		Gatherer: reg,
		Logger:   logger,
	})
	defer srv.Close(context.WithoutCancel(ctx))

	printKeyValue("listen", o.addr)
	printKeyValue("runs", backend)
	logger.Debug("server configured", "addr", o.addr, "store", backend)
	return srv.ListenAndServe(ctx, o.addr)
}
