package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/mediabrowser/internal/catalog"
	"github.com/vadimtrunov/mediabrowser/internal/config"
	"github.com/vadimtrunov/mediabrowser/internal/httpclient"
	"github.com/vadimtrunov/mediabrowser/internal/metadata/tmdb"
	"github.com/vadimtrunov/mediabrowser/internal/stream"
	"github.com/vadimtrunov/mediabrowser/internal/web"
)

// newServeCmd returns the "serve" subcommand that runs the website.
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid --port: %w", err)
				}
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// runServe wires the upstream clients into the site and serves until SIGINT or SIGTERM.
func runServe(parent context.Context, cfg *config.Config) error {
	logger := config.SetupLogger(cfg.App)

	srv, err := newServer(cfg, logger)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		select {
		case <-srv.Ready():
			fmt.Println(styleInfo.Render("mediabrowser listening on " + srv.Addr()))
		case <-ctx.Done():
		}
	}()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("mediabrowser stopped")
	return nil
}

// newServer builds the dependency graph for the site.
func newServer(cfg *config.Config, logger *slog.Logger) (*web.Server, error) {
	httpCfg := httpclient.Config{Timeout: cfg.HTTP.Timeout, UserAgent: httpclient.DefaultUserAgent}

	meta := tmdb.New(cfg.TMDb.APIKey, cfg.TMDb.BaseURL, httpCfg, logger)
	streams := stream.New(cfg.Stream.BaseURL, httpCfg, logger)
	svc := catalog.New(meta, streams, logger)

	handler, err := web.NewHandler(svc, meta, streams, logger)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}

	logger.Info("upstreams configured",
		slog.String("tmdb", sanitizeURL(orDefault(cfg.TMDb.BaseURL, "https://api.themoviedb.org/3"))),
		slog.String("stream", sanitizeURL(orDefault(cfg.Stream.BaseURL, "https://getsuperembed.link/"))),
	)

	return web.NewServer(web.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, handler.Routes(), logger), nil
}
