package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/djasnowski/myrefell-sub008/internal/api/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/api/response"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/market"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// RealmHandler handles world, kingdom and market endpoints
type RealmHandler struct {
	worldService  *world.Service
	marketService *market.Service
	storage       storage.Storage
}

// NewRealmHandler creates a new realm handler
func NewRealmHandler(worldService *world.Service, marketService *market.Service, storage storage.Storage) *RealmHandler {
	return &RealmHandler{
		worldService:  worldService,
		marketService: marketService,
		storage:       storage,
	}
}

// World handles GET /api/v1/world
func (h *RealmHandler) World(w http.ResponseWriter, r *http.Request) {
	ws, err := h.worldService.Current(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, ws)
}

// Kingdoms handles GET /api/v1/kingdoms
func (h *RealmHandler) Kingdoms(w http.ResponseWriter, r *http.Request) {
	kingdoms, err := h.storage.ListKingdoms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, kingdoms)
}

// Market handles GET /api/v1/kingdoms/{id}/market. Standing elsewhere or
// visiting in a closed season is not an error: the view's variant says
// which page to show.
func (h *RealmHandler) Market(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	kingdomID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || kingdomID <= 0 {
		WriteError(w, NewInvalidRequestError("invalid kingdom id"))
		return
	}

	view, err := h.marketService.View(r.Context(), player.ID, model.KingdomID(kingdomID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, view)
}
