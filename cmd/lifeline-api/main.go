// README: Entry point; loads config, wires the engine, hub and HTTP server.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifeline/internal/config"
	httptransport "lifeline/internal/http"
	"lifeline/internal/infra"
	"lifeline/internal/logging"
	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/location"
	"lifeline/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var telemetry dispatch.Telemetry
	if cfg.Redis.Addr != "" {
		store := location.NewStore(infra.NewRedis(cfg.Redis.Addr), logger)
		go store.Run(ctx)
		telemetry = store
	}

	hub := ws.NewHub(logger)
	engine := dispatch.NewEngine(hub, telemetry, logger)
	wsHandler := ws.NewHandler(hub, engine, logger)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(wsHandler, engine, hub, logger),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		hub.CloseAll()
	}()

	logger.Info("server listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	logger.Info("server stopped")
}
