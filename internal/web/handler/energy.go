package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/services/energy"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
	"github.com/djasnowski/myrefell-sub008/internal/web/middleware"
)

// EnergyHandler handles the energy page
type EnergyHandler struct {
	pages
	energyService *energy.Service
}

// NewEnergyHandler creates a new EnergyHandler
func NewEnergyHandler(energyService *energy.Service, renderer *inertia.Renderer, logger *slog.Logger) *EnergyHandler {
	return &EnergyHandler{
		pages:         pages{renderer: renderer, logger: logger},
		energyService: energyService,
	}
}

// Show renders the player's energy and the regen breakdown
func (h *EnergyHandler) Show(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	info, err := h.energyService.RegenInfo(r.Context(), player.ID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "Energy/Show", inertia.Props{
		"energy":     player.Energy,
		"max_energy": player.MaxEnergy,
		"regen":      info,
	})
}

// Regenerate applies one regen tick and returns to the energy page
func (h *EnergyHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	gained, err := h.energyService.Regenerate(r.Context(), player.ID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if gained > 0 {
		middleware.SetFlash(w, "success", fmt.Sprintf("You recovered %d energy.", gained))
	} else {
		middleware.SetFlash(w, "info", "Your energy is already full.")
	}
	inertia.Redirect(w, r, "/energy")
}
