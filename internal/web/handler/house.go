package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
	"github.com/djasnowski/myrefell-sub008/internal/web/middleware"
)

// HouseHandler handles house pages
type HouseHandler struct {
	pages
	houseService *house.Service
}

// NewHouseHandler creates a new HouseHandler
func NewHouseHandler(houseService *house.Service, renderer *inertia.Renderer, logger *slog.Logger) *HouseHandler {
	return &HouseHandler{
		pages:        pages{renderer: renderer, logger: logger},
		houseService: houseService,
	}
}

// Index lists the player's houses
func (h *HouseHandler) Index(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	houses, err := h.houseService.ListHousesForPlayer(r.Context(), player.ID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	list := make([]map[string]any, len(houses))
	for i, hs := range houses {
		list[i] = houseSummary(hs)
	}
	h.render(w, r, http.StatusOK, "Houses/Index", inertia.Props{"houses": list})
}

// Show renders one house with its rooms, furniture and the bonuses they give
func (h *HouseHandler) Show(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	found, err := h.houseService.GetHouse(r.Context(), model.HouseID(mux.Vars(r)["id"]))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	cat := h.houseService.Catalog()
	rooms := make([]map[string]any, 0, len(found.Rooms))
	for _, room := range found.SortedRooms() {
		items := make([]map[string]any, 0, len(room.Furniture))
		for _, f := range room.SortedFurniture() {
			item := map[string]any{
				"id":      f.ID,
				"key":     f.Key,
				"hotspot": f.HotspotSlug,
				"name":    f.Key,
			}
			if def, err := cat.Lookup(catalog.FurnitureKey(f.Key)); err == nil {
				item["name"] = def.Name
			}
			items = append(items, item)
		}
		rooms = append(rooms, map[string]any{
			"id":        room.ID,
			"type":      room.Type,
			"x":         room.GridX,
			"y":         room.GridY,
			"hotspots":  room.Type.Hotspots(),
			"furniture": items,
		})
	}

	bonuses := make([]map[string]string, 0)
	for _, rb := range h.houseService.Resolve(found, catalog.BonusEnergyRegen) {
		bonuses = append(bonuses, map[string]string{
			"source": rb.Source(),
			"amount": rb.Bonus.Format(),
		})
	}

	props := houseSummary(found)
	props["rooms"] = rooms
	props["energy_bonuses"] = bonuses
	props["is_owner"] = found.PlayerID == player.ID
	h.render(w, r, http.StatusOK, "Houses/Show", inertia.Props{"house": props})
}

func houseSummary(hs *model.House) map[string]any {
	cols, rows := hs.Tier.GridSize()
	return map[string]any{
		"id":         hs.ID,
		"name":       hs.Name,
		"tier":       hs.Tier.String(),
		"condition":  hs.Condition,
		"kingdom_id": hs.KingdomID,
		"grid_cols":  cols,
		"grid_rows":  rows,
		"room_count": len(hs.Rooms),
	}
}
