package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	"github.com/djasnowski/myrefell-sub008/internal/api"
	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/factory"
	redisstorage "github.com/djasnowski/myrefell-sub008/internal/storage/redis"
	"github.com/djasnowski/myrefell-sub008/internal/web"
)

// sessionSweepInterval is how often expired sessions are dropped
const sessionSweepInterval = 10 * time.Minute

func main() {
	env := config.FromEnv()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.LogLevel,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: env.StorageType,
		DatabaseURL: env.DatabaseURL,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == config.StorageTypeRedis {
		if env.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	balance, err := env.Balance()
	if err != nil {
		logger.Error("failed to load balance", slog.String("file", env.BalanceFile), slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg.Balance = &balance

	if env.CatalogFile != "" {
		cat, err := catalog.LoadFile(env.CatalogFile)
		if err != nil {
			logger.Error("failed to load furniture catalog", slog.String("file", env.CatalogFile), slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.Catalog = cat
	}

	// Create application factory
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	app, err := factory.New(startCtx, cfg)
	cancelStart()
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	staticDir := env.StaticDir
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		logger.Warn("static directory not found, serving pages without assets", slog.String("dir", staticDir))
		staticDir = ""
	}

	// API and pages share one router so unknown paths reach the page 404
	router := mux.NewRouter()
	api.Mount(router, api.RouterConfig{
		Logger:             logger,
		Storage:            app.Storage,
		AuthService:        app.AuthService,
		EnergyService:      app.EnergyService,
		HouseService:       app.HouseService,
		LocationService:    app.LocationService,
		MarketService:      app.MarketService,
		LeaderboardService: app.LeaderboardService,
		WorldService:       app.WorldService,
	})
	web.Mount(router, web.RouterConfig{
		Logger:             logger,
		Storage:            app.Storage,
		AuthService:        app.AuthService,
		EnergyService:      app.EnergyService,
		HouseService:       app.HouseService,
		LocationService:    app.LocationService,
		MarketService:      app.MarketService,
		LeaderboardService: app.LeaderboardService,
		WorldService:       app.WorldService,
		Version:            env.AssetVersion,
		StaticDir:          staticDir,
	})

	serverConfig := api.DefaultServerConfig()
	if env.Addr != "" {
		serverConfig.Addr = env.Addr
	}
	server := api.NewServer(gzhttp.GzipHandler(router), serverConfig, logger)

	// Stop on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sweepSessions(ctx, app, logger)

	logger.Info("server starting",
		slog.String("addr", serverConfig.Addr),
		slog.String("storage", env.StorageType),
	)
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// sweepSessions drops expired sessions until ctx ends
func sweepSessions(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.AuthService.CleanExpiredSessions(); n > 0 {
				logger.Debug("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}
