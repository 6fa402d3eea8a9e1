package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/vango-dev/vstore/internal/config"
	"github.com/vango-dev/vstore/internal/demo"
	"github.com/vango-dev/vstore/internal/seed"
	"github.com/vango-dev/vstore/pkg/store"
)

// globalOptions are flags shared by every command.
type globalOptions struct {
	dir       string
	seed      string
	logLevel  string
	logFormat string
}

// loadConfig reads vstore.json, applies VSTORE_* variables, then flags.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if opts.seed != "" {
		cfg.Seed = opts.seed
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Log.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// initialState loads the configured seed, or the demo defaults.
func initialState(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.State, error) {
	if cfg.Seed == "" {
		return demo.DefaultState(), nil
	}

	loaderOpts := []seed.Option{seed.WithLogger(logger)}
	if strings.HasPrefix(cfg.Seed, "s3://") {
		client, err := seed.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		loaderOpts = append(loaderOpts, seed.WithS3(client))
	}
	return seed.NewLoader(loaderOpts...).Load(ctx, cfg.Seed)
}

// newApp builds the demo app from the configured initial state.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...store.Option) (*demo.App, error) {
	initial, err := initialState(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	opts = append([]store.Option{store.WithName(cfg.Name)}, opts...)
	return demo.New(func() store.State { return initial }, logger, opts...), nil
}
