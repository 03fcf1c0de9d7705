// Package internal wires configuration, storage and the generation service
// into the batch and watch entry points.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/threadmap/internal/generate"
	"github.com/starford/threadmap/internal/index"
	"github.com/starford/threadmap/internal/lineage"
	"github.com/starford/threadmap/internal/report"
	"github.com/starford/threadmap/internal/storage"
	"github.com/starford/threadmap/internal/watch"
)

// session is the set of resources one invocation needs.
type session struct {
	app     *application
	logger  *slog.Logger
	store   *storage.FS
	catalog *index.DB
	svc     *generate.Service
}

func setup(opts []Option) (*session, error) {
	app := &application{
		out:    os.Stdout,
		logOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := NewLogger(app.logOut, cfg.App)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("notes_dir", cfg.Vault.NotesDir),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("dry_run", app.dryRun))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	rt := &session{app: app, logger: logger, store: store}

	var catalog index.Catalog
	if cfg.Catalog.Path != "" {
		dbPath := catalogPath(store.Root(), cfg.Catalog.Path)
		_, statErr := os.Stat(dbPath)
		if app.dryRun && errors.Is(statErr, os.ErrNotExist) {
			logger.Info("catalog does not exist yet, skipped in dry run", slog.String("path", dbPath))
		} else {
			db, err := index.Open(dbPath)
			if err != nil {
				return nil, fmt.Errorf("init catalog: %w", err)
			}
			rt.catalog = db
			catalog = db
		}
	}

	rt.svc = generate.NewService(store, catalog, serviceOptions(cfg, app.dryRun), logger)
	return rt, nil
}

// catalogPath resolves a relative catalog path against the vault root, like
// every other output path.
func catalogPath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func (rt *session) close() {
	if rt.catalog != nil {
		if err := rt.catalog.Close(); err != nil {
			rt.logger.Warn("catalog close failed", slog.String("error", err.Error()))
		}
	}
}

// batch runs the service once and prints the report.
func (rt *session) batch(ctx context.Context) error {
	results, err := rt.svc.Run(ctx, rt.app.targets)
	if err != nil {
		return err
	}
	return report.Print(rt.app.out, results, rt.app.dryRun)
}

func serviceOptions(cfg *Config, dryRun bool) generate.Options {
	return generate.Options{
		NotesDir:   cfg.Vault.NotesDir,
		Recursive:  cfg.Vault.Recursive,
		InlineTags: cfg.Tags.IncludeInline,
		DryRun:     dryRun,
		Tags: generate.IndexOptions{
			Output:          cfg.Tags.Output,
			Header:          cfg.Tags.Header,
			ExcludePrefixes: cfg.Tags.ExcludePrefixes,
		},
		Chrono: generate.IndexOptions{
			Output: cfg.Chrono.Output,
			Header: cfg.Chrono.Header,
		},
		Canvas: generate.CanvasOptions{
			Output: cfg.Canvas.Output,
			Layout: lineage.Options{
				CardWidth:     cfg.Canvas.CardWidth,
				CardHeight:    cfg.Canvas.CardHeight,
				HorizontalGap: cfg.Canvas.HorizontalGap,
				VerticalGap:   cfg.Canvas.VerticalGap,
			},
		},
		Diagram: generate.DiagramOptions{
			Output:          cfg.Diagram.Output,
			Direction:       cfg.Diagram.Direction,
			ExcludePrefixes: cfg.Tags.ExcludePrefixes,
			RenderCommand:   cfg.Diagram.RenderCommand,
			RenderOutput:    cfg.Diagram.RenderOutput,
		},
		CatalogPath: cfg.Catalog.Path,
	}
}

// Run regenerates the configured outputs once.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.batch(ctx); err != nil {
		rt.logger.Error("Run failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Watch runs once, then again after every settled change to the notes
// folder, until ctx is cancelled or SIGINT/SIGTERM arrives.
func Watch(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.batch(ctx); err != nil {
		rt.logger.Error("Initial run failed", slog.String("error", err.Error()))
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := rt.app.config
	root := filepath.Join(rt.store.Root(), filepath.FromSlash(cfg.Vault.NotesDir))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return watch.Watch(gCtx, root, watch.Options{Debounce: cfg.Watch.Debounce}, rt.logger, rt.batch)
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			rt.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		rt.logger.Error("Watch error", slog.String("error", err.Error()))
		return err
	}

	rt.logger.Info("Watch stopped")
	return nil
}
