package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/djasnowski/myrefell-sub008/internal/api/response"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/report"
	"github.com/djasnowski/myrefell-sub008/internal/services/leaderboard"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboardService *leaderboard.Service
	worldService       *world.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *leaderboard.Service, worldService *world.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		worldService:       worldService,
	}
}

// Get handles GET /api/v1/leaderboard?tab=houses|wealth&kingdom={id}
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	tab, err := leaderboard.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		WriteError(w, err)
		return
	}

	var kingdomID *model.KingdomID
	if raw := r.URL.Query().Get("kingdom"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			WriteError(w, NewInvalidRequestError("invalid kingdom id"))
			return
		}
		id := model.KingdomID(n)
		kingdomID = &id
	}

	ws, err := h.worldService.Current(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.Leaderboard{Tab: string(tab), World: ws}
	for _, t := range leaderboard.Tabs() {
		resp.Tabs = append(resp.Tabs, string(t))
	}

	switch tab {
	case leaderboard.TabWealth:
		resp.Entries, err = h.leaderboardService.RankWealth(r.Context())
	default:
		resp.Entries, err = h.leaderboardService.RankHouses(r.Context(), kingdomID)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Export handles GET /api/v1/leaderboard/export
func (h *LeaderboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	ws, err := h.worldService.Current(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	houses, err := h.leaderboardService.RankHouses(r.Context(), nil)
	if err != nil {
		WriteError(w, err)
		return
	}
	wealth, err := h.leaderboardService.RankWealth(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	raw, err := report.ExportXLSX(report.Leaderboard{World: ws, Houses: houses, Wealth: wealth})
	if err != nil {
		WriteError(w, err)
		return
	}

	filename := fmt.Sprintf("leaderboard-y%d-%s-w%d.xlsx", ws.Year, ws.Season, ws.Week)
	response.Attachment(w, report.ContentType, filename, raw)
}
