package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/djasnowski/myrefell-sub008/internal/api/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/api/request"
	"github.com/djasnowski/myrefell-sub008/internal/api/response"
	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
)

// HouseHandler handles house building endpoints
type HouseHandler struct {
	houseService *house.Service
}

// NewHouseHandler creates a new house handler
func NewHouseHandler(houseService *house.Service) *HouseHandler {
	return &HouseHandler{
		houseService: houseService,
	}
}

// List handles GET /api/v1/houses
func (h *HouseHandler) List(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	houses, err := h.houseService.ListHousesForPlayer(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HousesFromModel(houses))
}

// Create handles POST /api/v1/houses
func (h *HouseHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	req, err := request.Decode[request.CreateHouseRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	tier, err := model.ParseHouseTier(req.Tier)
	if err != nil {
		WriteError(w, err)
		return
	}
	if req.KingdomID <= 0 {
		WriteError(w, NewInvalidRequestError("kingdom_id is required"))
		return
	}

	created, err := h.houseService.CreateHouse(r.Context(), player.ID, req.Name, tier, model.KingdomID(req.KingdomID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.HouseFromModel(created))
}

// Get handles GET /api/v1/houses/{id}
func (h *HouseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.HouseID(mux.Vars(r)["id"])

	found, err := h.houseService.GetHouse(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HouseFromModel(found))
}

// AddRoom handles POST /api/v1/houses/{id}/rooms
func (h *HouseHandler) AddRoom(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.HouseID(mux.Vars(r)["id"])

	req, err := request.Decode[request.AddRoomRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	room, err := h.houseService.AddRoom(r.Context(), player.ID, id, model.RoomType(req.Type), req.X, req.Y)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(*room))
}

// PlaceFurniture handles POST /api/v1/houses/{id}/rooms/{room_id}/furniture
func (h *HouseHandler) PlaceFurniture(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)

	req, err := request.Decode[request.PlaceFurnitureRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	hotspot := model.HotspotSlug(req.Hotspot)
	if hotspot == "" {
		// Default to the item's own hotspot
		if def, err := h.houseService.Catalog().Lookup(catalog.FurnitureKey(req.Key)); err == nil {
			hotspot = def.Hotspot
		}
	}

	placed, err := h.houseService.PlaceFurniture(
		r.Context(),
		player.ID,
		model.HouseID(vars["id"]),
		model.RoomID(vars["room_id"]),
		catalog.FurnitureKey(req.Key),
		hotspot,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Furniture{
		ID:      string(placed.ID),
		Key:     placed.Key,
		Hotspot: string(placed.HotspotSlug),
	})
}

// RemoveFurniture handles DELETE /api/v1/houses/{id}/furniture/{furniture_id}
func (h *HouseHandler) RemoveFurniture(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	vars := mux.Vars(r)

	err := h.houseService.RemoveFurniture(
		r.Context(),
		player.ID,
		model.HouseID(vars["id"]),
		model.FurnitureID(vars["furniture_id"]),
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Catalog handles GET /api/v1/catalog/furniture
func (h *HouseHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat := h.houseService.Catalog()

	var defs []catalog.Definition
	if slug := r.URL.Query().Get("hotspot"); slug != "" {
		defs = cat.ForHotspot(model.HotspotSlug(slug))
	} else {
		for _, key := range cat.Keys() {
			def, _ := cat.Lookup(key)
			defs = append(defs, def)
		}
	}

	items := make([]response.CatalogItem, len(defs))
	for i, d := range defs {
		items[i] = response.CatalogItemFromDefinition(d)
	}
	response.JSON(w, http.StatusOK, items)
}
