package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/services/energy"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
	"github.com/djasnowski/myrefell-sub008/internal/services/leaderboard"
	"github.com/djasnowski/myrefell-sub008/internal/services/location"
	"github.com/djasnowski/myrefell-sub008/internal/services/market"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
	"github.com/djasnowski/myrefell-sub008/internal/web/handler"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
	"github.com/djasnowski/myrefell-sub008/internal/web/middleware"
)

// DefaultVersion is the asset version used when none is configured
const DefaultVersion = "1"

// RouterConfig holds configuration for the web router
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
	Version            string // Asset version stamped on every page
	StaticDir          string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the page routes on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	version := cfg.Version
	if version == "" {
		version = DefaultVersion
	}
	renderer := inertia.New(version, "Myrefell", cfg.Logger)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, renderer)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService, cfg.Logger)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService, cfg.Logger)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.WorldService, cfg.Storage, renderer, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService, renderer, cfg.Logger)
	energyHandler := handler.NewEnergyHandler(cfg.EnergyService, renderer, cfg.Logger)
	houseHandler := handler.NewHouseHandler(cfg.HouseService, renderer, cfg.Logger)
	marketHandler := handler.NewMarketHandler(cfg.MarketService, cfg.LocationService, renderer, cfg.Logger)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService, cfg.WorldService, cfg.Storage, renderer, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(loggingMiddleware)
	pages.Use(recoveryMiddleware)
	pages.Use(flashMiddleware)

	// Public routes (optional auth for showing player info in nav)
	public := pages.NewRoute().Subrouter()
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/leaderboard", leaderboardHandler.Index).Methods(http.MethodGet)

	// Auth actions (no auth required)
	public.HandleFunc("/auth/guest", authHandler.CreateGuest).Methods(http.MethodPost)
	public.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := pages.NewRoute().Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/energy", energyHandler.Show).Methods(http.MethodGet)
	protected.HandleFunc("/energy/regen", energyHandler.Regenerate).Methods(http.MethodPost)
	protected.HandleFunc("/houses", houseHandler.Index).Methods(http.MethodGet)
	protected.HandleFunc("/houses/{id}", houseHandler.Show).Methods(http.MethodGet)
	protected.HandleFunc("/kingdoms/{id}/market", marketHandler.Show).Methods(http.MethodGet)
	protected.HandleFunc("/travel", marketHandler.Travel).Methods(http.MethodPost)

	r.NotFoundHandler = middleware.Flash()(optionalAuthMiddleware(http.HandlerFunc(homeHandler.NotFound)))
}
