package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/location"
	"github.com/djasnowski/myrefell-sub008/internal/services/market"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
	"github.com/djasnowski/myrefell-sub008/internal/web/middleware"
)

// MarketHandler handles market pages and travel
type MarketHandler struct {
	pages
	marketService   *market.Service
	locationService *location.Service
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *market.Service, locationService *location.Service, renderer *inertia.Renderer, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		pages:           pages{renderer: renderer, logger: logger},
		marketService:   marketService,
		locationService: locationService,
	}
}

// Show renders the kingdom market. Every variant is a normal page, so
// the status is 200 whether the market is open, closed or elsewhere.
func (h *MarketHandler) Show(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		h.renderError(w, r, model.ErrKingdomNotFound)
		return
	}

	view, err := h.marketService.View(r.Context(), player.ID, model.KingdomID(id))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.Variant.Component(), inertia.Props{
		"variant":  view.Variant,
		"kingdom":  view.Kingdom,
		"world":    view.World,
		"access":   view.Access,
		"gold":     view.Gold,
		"listings": view.Listings,
	})
}

// Travel moves the player and redirects back to where they came from
func (h *MarketHandler) Travel(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, model.ErrInvalidLocation)
		return
	}
	next := safeNext(r.FormValue("next"), "/")

	target, err := model.ParseLocation(r.FormValue("location"))
	if err != nil {
		middleware.SetFlash(w, "error", "Unknown destination.")
		inertia.Redirect(w, r, next)
		return
	}

	if _, err := h.locationService.Travel(r.Context(), player.ID, target); err != nil {
		status, message := errorStatus(err)
		if status == http.StatusInternalServerError {
			h.renderError(w, r, err)
			return
		}
		middleware.SetFlash(w, "error", message)
		inertia.Redirect(w, r, next)
		return
	}

	name, err := h.locationService.Name(r.Context(), target)
	if err != nil {
		name = target.String()
	}
	middleware.SetFlash(w, "success", fmt.Sprintf("You arrive in %s.", name))
	inertia.Redirect(w, r, next)
}
