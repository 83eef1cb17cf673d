package handler

import (
	"log/slog"
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
)

// HomeHandler handles the home page
type HomeHandler struct {
	pages
	worldService *world.Service
	storage      storage.Storage
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(worldService *world.Service, storage storage.Storage, renderer *inertia.Renderer, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		pages:        pages{renderer: renderer, logger: logger},
		worldService: worldService,
		storage:      storage,
	}
}

// Home renders the home page with the calendar and the realm's kingdoms
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
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

	h.render(w, r, http.StatusOK, "Home", inertia.Props{
		"world":      ws,
		"world_text": ws.String(),
		"kingdoms":   kingdoms,
		"next":       r.URL.Query().Get("next"),
	})
}

// NotFound renders the Error page for unknown paths
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "Error", inertia.Props{
		"status":  http.StatusNotFound,
		"message": "Page not found.",
	})
}
