package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/assetgridgo/internal/assets"
	"github.com/vk/assetgridgo/internal/ctxlog"
	"github.com/vk/assetgridgo/internal/manifest"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	server   *assets.Server
	manifest *manifest.Model
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and asset server,
// all asset-type modules registered, and the preload manifest (if any)
// already parsed.
func NewApp(outW io.Writer, cfg *Config, modules ...assets.Module) *App {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	server := assets.NewServer(cfg.AssetRoot)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(server)
	}
	logger.Debug("All asset-type modules registered.", "count", len(modules))

	var model *manifest.Model
	if cfg.ManifestPath != "" {
		var err error
		model, err = manifest.Load(ctx, cfg.ManifestPath)
		if err != nil {
			// A failure to load the manifest is a fatal startup error.
			panic(fmt.Errorf("failed to load preload manifest: %w", err))
		}
		logger.Debug("Preload manifest loaded.", "paths", model.PathCount())
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		server:   server,
		manifest: model,
	}
}

// Server returns the application's asset server. This is primarily for testing.
func (a *App) Server() *assets.Server {
	return a.server
}
