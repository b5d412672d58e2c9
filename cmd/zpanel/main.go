package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/primal-host/zpanel/internal/config"
	"github.com/primal-host/zpanel/internal/metrics"
	"github.com/primal-host/zpanel/internal/monitor"
	"github.com/primal-host/zpanel/internal/request"
	"github.com/primal-host/zpanel/internal/server"
)

func main() {
	slog.Info("zpanel starting", "version", config.Version)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	layout, err := config.LoadLayout(cfg.LayoutPath)
	if err != nil {
		slog.Error("layout load failed", "error", err)
		os.Exit(1)
	}
	slog.Info("layout loaded", "panels", len(layout.Panels), "tables", len(layout.Tables), "actions", len(layout.Actions))

	met := metrics.New()
	client := request.New(cfg.ApplianceURL, request.WithTimeout(cfg.RequestTimeout), request.WithObserver(met))

	mon := monitor.New(client, cfg.HealthProbe, cfg.HealthInterval)
	mon.Report(met)
	mon.Start()

	srv := server.New(client, mon, met, layout, cfg.InstallURL, cfg.ListenAddr)

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down", "signal", sig.String())

	mon.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("stopped")
}
