package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hanamagouda9611/map-poi-app/internal/adapters/http"
	natsadapter "github.com/hanamagouda9611/map-poi-app/internal/adapters/nats"
	"github.com/hanamagouda9611/map-poi-app/internal/adapters/postgres"
	"github.com/hanamagouda9611/map-poi-app/internal/adapters/valkey"
	"github.com/hanamagouda9611/map-poi-app/internal/core/usecases"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/config"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/logging"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/metrics"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("poimap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var opts []usecases.Option
	deps := &http.Dependencies{DB: db}

	// Cache
	if cfg.Valkey.Enabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, caching disabled", "error", err)
		} else {
			defer cache.Close()
			opts = append(opts, usecases.WithCache(cache, cfg.Valkey.TTL))
			deps.Cache = cache
		}
	}

	// NATS
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, change events disabled", "error", err)
		} else {
			defer pub.Close()
			opts = append(opts, usecases.WithEvents(pub))
			deps.NATS = pub.Conn()
		}
	}

	deps.POIs = usecases.NewPOIService(postgres.NewPOIRepo(db), opts...)

	// Pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "Map POI API",
	})

	http.SetupRoutes(app, deps, http.RouterConfig{CORSOrigins: cfg.Server.CORSOrigins})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
