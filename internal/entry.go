// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/notionsite/internal/apperr"
	"github.com/starford/notionsite/internal/build"
	"github.com/starford/notionsite/internal/content"
	"github.com/starford/notionsite/internal/notion"
	"github.com/starford/notionsite/internal/preview"
	"github.com/starford/notionsite/internal/sse"
)

// setup applies opts, validates the configuration and prepares the logger.
// The notion section is skipped only for a serve that does not build.
func setup(opts []Option, serving bool) (*application, *slog.Logger, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, &apperr.ConfigError{Err: errors.New("config is required")}
	}
	validate := app.config.Validate
	if serving && app.skipBuild {
		validate = app.config.ValidateLocal
	}
	if err := validate(); err != nil {
		return nil, nil, &apperr.ConfigError{Err: err}
	}

	logger := app.logger
	if logger == nil {
		// Logs go to stderr; stdout carries dry-run output.
		logger = NewLogger(app.config.App, os.Stderr)
		slog.SetDefault(logger)
	}
	return app, logger, nil
}

// newBuilder wires the Notion client, the fetcher and the template splicer.
func newBuilder(app *application, logger *slog.Logger) (*build.Builder, error) {
	cfg := app.config

	httpClient := app.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Notion.Timeout}
	}

	client, err := notion.NewClient(cfg.Notion.Token,
		notion.WithBaseURL(cfg.Notion.BaseURL),
		notion.WithVersion(cfg.Notion.Version),
		notion.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}

	fetcher := content.NewFetcher(client, cfg.contentOptions(), logger)

	return build.New(fetcher, build.Options{
		Template: cfg.Site.Template,
		Markers:  cfg.Site.Markers(),
		DryRun:   app.dryRun,
	}, logger), nil
}

// Run performs one build: fetch published entries and splice them into the
// template document.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts, false)
	if err != nil {
		return err
	}
	cfg := app.config

	logger.Info("Configuration loaded",
		slog.String("database_id", cfg.Notion.DatabaseID),
		slog.String("template", cfg.Site.Template),
		slog.Bool("dry_run", app.dryRun != nil),
		slog.String("log_level", cfg.App.LogLevel.String()))

	builder, err := newBuilder(app, logger)
	if err != nil {
		return err
	}

	if _, err := builder.Run(ctx); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	return nil
}

// Serve optionally builds once, then serves the site root with live reload
// events until a shutdown signal arrives or ctx is cancelled.
func Serve(ctx context.Context, opts ...Option) error {
	app, logger, err := setup(opts, true)
	if err != nil {
		return err
	}
	cfg := app.config

	root, err := filepath.Abs(cfg.Preview.Root)
	if err != nil {
		return &apperr.ConfigError{Err: fmt.Errorf("preview root: %w", err)}
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.Preview.Address()),
		slog.String("root", root),
		slog.String("template", cfg.Site.Template),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if !app.skipBuild {
		builder, err := newBuilder(app, logger)
		if err != nil {
			return err
		}
		if _, err := builder.Run(ctx); err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
	}

	broker := sse.NewBroker(500 * time.Millisecond)
	defer broker.Close()

	httpServer := &http.Server{
		Addr:              cfg.Preview.Address(),
		Handler:           preview.NewRouter(root, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.Preview.Address()))

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)

	// Start file watcher with SSE callback.
	g.Go(func() error {
		return preview.Watch(gCtx, root, logger, func(kind, path string) {
			broker.PublishChange(kind, path)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.Preview.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// SSE streams only end when the broker closes.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		// Stops the watcher.
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
