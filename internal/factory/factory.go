package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/clock"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/ids"
	"github.com/djasnowski/myrefell-sub008/internal/seed"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/services/energy"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
	"github.com/djasnowski/myrefell-sub008/internal/services/leaderboard"
	"github.com/djasnowski/myrefell-sub008/internal/services/location"
	"github.com/djasnowski/myrefell-sub008/internal/services/market"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
	"github.com/djasnowski/myrefell-sub008/internal/storage/memory"
	redisstorage "github.com/djasnowski/myrefell-sub008/internal/storage/redis"
	"github.com/djasnowski/myrefell-sub008/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Static configuration
	Balance config.Balance
	Catalog *catalog.Catalog

	// Services
	WorldService       *world.Service
	HouseService       *house.Service
	EnergyService      *energy.Service
	LocationService    *location.Service
	MarketService      *market.Service
	LeaderboardService *leaderboard.Service
	AuthService        *auth.Service

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend. If empty, defaults to memory.
	StorageType string
	// RedisConfig holds Redis connection settings (required for redis)
	RedisConfig *redisstorage.Config
	// DatabaseURL is the DSN for the sqlite and postgres backends
	DatabaseURL string
	// Balance overrides config.DefaultBalance() when set
	Balance *config.Balance
	// Catalog overrides the embedded furniture catalog when set
	Catalog *catalog.Catalog
	// Realm overrides the embedded realm seeded at startup when set
	Realm *seed.Realm
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
}

// New creates a new application with all dependencies wired and the realm
// seeded into storage
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	balance := config.DefaultBalance()
	if cfg.Balance != nil {
		balance = *cfg.Balance
	}
	cat := cfg.Catalog
	if cat == nil {
		if cat, err = catalog.Default(); err != nil {
			return nil, err
		}
	}
	realm := cfg.Realm
	if realm == nil {
		if realm, err = seed.Default(); err != nil {
			return nil, err
		}
	}

	authCfg := cfg.AuthConfig
	if authCfg.NewPlayer.MaxEnergy == 0 {
		authCfg.NewPlayer = balance.NewPlayer
	}

	app := newWithDependencies(store, clock.New(), ids.New(), balance, cat, authCfg, logger)
	app.closer = closer

	if err := seed.Apply(ctx, store, realm, logger.With(slog.String("component", "seed"))); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("seed realm: %w", err)
	}
	return app, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		return memory.New(), nil, nil
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		s, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.StorageTypeSQLite, config.StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DatabaseURL required when StorageType is %s", storageType)
		}
		dialect := sqlstore.DialectSQLite
		if storageType == config.StorageTypePostgres {
			dialect = sqlstore.DialectPostgres
		}
		s, err := sqlstore.Open(ctx, dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	idGen ids.Generator,
	balance config.Balance,
	cat *catalog.Catalog,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	worldService := world.New(store, logger)
	houseService := house.New(store, cat, clk, idGen, logger)
	energyService := energy.New(store, houseService, balance.Energy, clk, logger)
	locationService := location.New(store, energyService.Locks(), logger)
	marketService := market.New(store, locationService, worldService, balance.Market, logger)
	leaderboardService := leaderboard.New(store, balance.Leaderboard, clk, logger)
	authService := auth.New(store, clk, idGen, authCfg, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		IDs:                idGen,
		Balance:            balance,
		Catalog:            cat,
		WorldService:       worldService,
		HouseService:       houseService,
		EnergyService:      energyService,
		LocationService:    locationService,
		MarketService:      marketService,
		LeaderboardService: leaderboardService,
		AuthService:        authService,
	}
}
