package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	"github.com/djasnowski/myrefell-sub008/internal/api/handler"
	"github.com/djasnowski/myrefell-sub008/internal/api/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/services/energy"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
	"github.com/djasnowski/myrefell-sub008/internal/services/leaderboard"
	"github.com/djasnowski/myrefell-sub008/internal/services/location"
	"github.com/djasnowski/myrefell-sub008/internal/services/market"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Storage            storage.Storage
	AuthService        *auth.Service
	EnergyService      *energy.Service
	HouseService       *house.Service
	LocationService    *location.Service
	MarketService      *market.Service
	LeaderboardService *leaderboard.Service
	WorldService       *world.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return gzhttp.GzipHandler(r)
}

// Mount registers the API routes under /api/v1 on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.LocationService)
	energyHandler := handler.NewEnergyHandler(cfg.EnergyService, cfg.Storage)
	houseHandler := handler.NewHouseHandler(cfg.HouseService)
	realmHandler := handler.NewRealmHandler(cfg.WorldService, cfg.MarketService, cfg.Storage)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.WorldService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/world", realmHandler.World).Methods(http.MethodGet)
	api.HandleFunc("/kingdoms", realmHandler.Kingdoms).Methods(http.MethodGet)
	api.HandleFunc("/catalog/furniture", houseHandler.Catalog).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/export", leaderboardHandler.Export).Methods(http.MethodGet)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/players/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/players/me/travel", playerHandler.Travel).Methods(http.MethodPost)
	protected.HandleFunc("/players/logout", playerHandler.Logout).Methods(http.MethodPost)

	protected.HandleFunc("/energy", energyHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/energy/regen", energyHandler.Regenerate).Methods(http.MethodPost)

	protected.HandleFunc("/houses", houseHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/houses", houseHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/houses/{id}", houseHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/houses/{id}/rooms", houseHandler.AddRoom).Methods(http.MethodPost)
	protected.HandleFunc("/houses/{id}/rooms/{room_id}/furniture", houseHandler.PlaceFurniture).Methods(http.MethodPost)
	protected.HandleFunc("/houses/{id}/furniture/{furniture_id}", houseHandler.RemoveFurniture).Methods(http.MethodDelete)

	protected.HandleFunc("/kingdoms/{id}/market", realmHandler.Market).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
