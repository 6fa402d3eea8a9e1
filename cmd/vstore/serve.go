package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vstore/internal/devserver"
	"github.com/vango-dev/vstore/pkg/metrics"
	"github.com/vango-dev/vstore/pkg/store"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dev server",
		Long: `Start the dev server for the counter app.

Every browser tab gets its own session and its own store container.
Clicks and updates are sent over a WebSocket and the page is re-rendered
on the server.

Examples:
  vstore serve
  vstore serve --port=8080
  vstore serve --seed=s3://my-bucket/seed.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from vstore.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from vstore.json)")

	return cmd
}

func runServe(ctx context.Context, opts *globalOptions, port int, host string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg)

	var (
		storeOpts  []store.Option
		serverOpts = []devserver.Option{devserver.WithLogger(logger)}
	)
	if cfg.MetricsEnabled() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace(cfg.Metrics.Namespace))
		storeOpts = append(storeOpts, store.WithObserver(m))
		serverOpts = append(serverOpts, devserver.WithMetrics(m, reg))
	}

	app, err := newApp(ctx, cfg, logger, storeOpts...)
	if err != nil {
		return err
	}

	success("Serving %s at %s", cfg.Name, cfg.URL())
	if cfg.MetricsEnabled() {
		fmt.Printf("  metrics at %s/metrics\n", cfg.URL())
	}
	return devserver.New(app, serverOpts...).Run(ctx, cfg.Address())
}
