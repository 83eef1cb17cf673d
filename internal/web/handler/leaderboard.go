package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/leaderboard"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
)

// LeaderboardHandler handles the leaderboard page
type LeaderboardHandler struct {
	pages
	leaderboardService *leaderboard.Service
	worldService       *world.Service
	storage            storage.Storage
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(
	leaderboardService *leaderboard.Service,
	worldService *world.Service,
	storage storage.Storage,
	renderer *inertia.Renderer,
	logger *slog.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		pages:              pages{renderer: renderer, logger: logger},
		leaderboardService: leaderboardService,
		worldService:       worldService,
		storage:            storage,
	}
}

// Index renders one leaderboard tab, optionally filtered to a kingdom
func (h *LeaderboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	tab, err := leaderboard.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var kingdomID *model.KingdomID
	if raw := r.URL.Query().Get("kingdom"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			h.renderError(w, r, model.ErrKingdomNotFound)
			return
		}
		id := model.KingdomID(n)
		kingdomID = &id
	}

	ws, err := h.worldService.Current(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	kingdoms, err := h.storage.ListKingdoms(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var entries any
	switch tab {
	case leaderboard.TabWealth:
		entries, err = h.leaderboardService.RankWealth(r.Context())
	default:
		entries, err = h.leaderboardService.RankHouses(r.Context(), kingdomID)
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "Leaderboard/Index", inertia.Props{
		"tab":      tab,
		"tabs":     leaderboard.Tabs(),
		"kingdom":  kingdomID,
		"kingdoms": kingdoms,
		"world":    ws,
		"entries":  entries,
	})
}
