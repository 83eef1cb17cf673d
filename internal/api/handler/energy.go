package handler

import (
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/api/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/api/response"
	"github.com/djasnowski/myrefell-sub008/internal/services/energy"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// EnergyHandler handles energy endpoints
type EnergyHandler struct {
	energyService *energy.Service
	storage       storage.Storage
}

// NewEnergyHandler creates a new energy handler
func NewEnergyHandler(energyService *energy.Service, storage storage.Storage) *EnergyHandler {
	return &EnergyHandler{
		energyService: energyService,
		storage:       storage,
	}
}

// Get handles GET /api/v1/energy
func (h *EnergyHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	info, err := h.energyService.RegenInfo(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Energy{
		Energy:    player.Energy,
		MaxEnergy: player.MaxEnergy,
		Regen:     info,
	})
}

// Regenerate handles POST /api/v1/energy/regen
func (h *EnergyHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	gained, err := h.energyService.Regenerate(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.storage.GetPlayer(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RegenResult{
		Gained:    gained,
		Energy:    updated.Energy,
		MaxEnergy: updated.MaxEnergy,
	})
}
