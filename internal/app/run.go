package app

import (
	"context"
	"fmt"

	"github.com/vk/assetgridgo/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Run executes the application lifecycle: start the diagnostics server if
// enabled, then warm every asset named by the preload manifest using up to
// WorkerCount concurrent loads. The first failed load cancels the rest.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.StatsPort > 0 {
		go a.startStatsServer(ctx, a.config.StatsPort)
	}

	if a.manifest == nil || a.manifest.PathCount() == 0 {
		a.logger.Warn("No assets to preload, registry stays cold.")
		return nil
	}

	a.logger.Info("Preloading assets...",
		"paths", a.manifest.PathCount(), "workers", a.config.WorkerCount)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for _, block := range a.manifest.Preloads {
		for _, path := range block.Paths {
			g.Go(func() error {
				return a.server.Ensure(gctx, block.Type, path)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload failed: %w", err)
	}

	for _, st := range a.server.Stats() {
		a.logger.Info("Preload finished for type.",
			"type", st.Type, "count", st.Count, "capacity", st.Capacity)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
