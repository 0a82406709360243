package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vk/assetgridgo/internal/ctxlog"
)

// healthHandler answers liveness probes.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// statsHandler reports every registered type's store as JSON.
func (a *App) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.server.Stats()); err != nil {
		a.logger.Error("Failed to encode stats response.", "error", err)
	}
}

// startStatsServer runs the diagnostics HTTP server until it fails. It is
// started in a goroutine by Run and lives for the process lifetime; there
// is no graceful shutdown because the registry itself has none.
func (a *App) startStatsServer(ctx context.Context, port int) {
	logger := ctxlog.FromContext(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/stats", a.statsHandler)

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Diagnostics server starting.", "address", fmt.Sprintf("http://localhost%s/stats", addr))

	server := &http.Server{Addr: addr, Handler: mux}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Diagnostics server failed unexpectedly.", "error", err)
	}
}
