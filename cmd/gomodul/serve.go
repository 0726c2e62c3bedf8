package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/zbysir/gomodul"
	"github.com/zbysir/gomodul/internal/config"
	"github.com/zbysir/gomodul/internal/content"
	"github.com/zbysir/gomodul/internal/logger"
	"github.com/zbysir/gomodul/internal/server"
	"github.com/zbysir/gomodul/pkg/fetch"
	"github.com/zbysir/gomodul/pkg/highlight"
	"github.com/zbysir/gomodul/pkg/timetrack"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve modules and blog posts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
			&cli.BoolFlag{
				Name:  "live-reload",
				Usage: "Reload open pages when content changes",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if addr := c.String("addr"); addr != "" {
				cfg.Server.Addr = addr
			}
			if c.Bool("live-reload") {
				cfg.Server.LiveReload = true
			}
			return serve(ctx, cfg)
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	root := "."
	if path != "" {
		root = filepath.Dir(path)
	}
	cfg.Resolve(root)
	return cfg, nil
}

// newEngine wires an engine from cfg. The returned func releases the highlighter.
func newEngine(cfg *config.Config, log *logger.Logger) (*gomodul.Engine, func(), error) {
	ops := []gomodul.Option{
		gomodul.WithLoader(fetch.NewFetcher(os.DirFS(cfg.StaticDir), &http.Client{Timeout: 10 * time.Second}, cfg.Render.BaseURL)),
		gomodul.WithTheme(cfg.Render.Theme),
		gomodul.WithLogger(log),
		gomodul.WithMarkdownCacheSize(cfg.Render.MarkdownCacheSize),
		gomodul.WithSectionHighlight(cfg.Render.GetSectionHighlight()),
		gomodul.WithToastTTL(cfg.Render.GetToastTTL()),
		gomodul.WithTracker(timetrack.New(func(span string, depth int, d time.Duration) {
			log.Debug("timing", "span", span, "depth", depth, "duration", d)
		})),
	}
	release := func() {}
	if cfg.Render.HighlightScript != "" {
		h, err := highlight.LoadFile(cfg.Render.HighlightScript, highlight.WithPoolSize(cfg.Render.GetHighlightPoolSize()), highlight.WithLogger(log))
		if err != nil {
			return nil, nil, fmt.Errorf("loading highlighter: %w", err)
		}
		ops = append(ops, gomodul.WithHighlighter(h))
		release = h.Close
	}
	return gomodul.New(ops...), release, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	engine, release, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer release()

	store := content.New(os.DirFS(cfg.ContentDir), os.DirFS(cfg.DataDir), 256)
	srv, err := server.New(server.Options{
		Config: cfg,
		Engine: engine,
		Store:  store,
		Static: os.DirFS(cfg.StaticDir),
		Logger: log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
