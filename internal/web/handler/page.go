package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
	"github.com/djasnowski/myrefell-sub008/internal/web/middleware"
)

// pages holds what every page handler needs to render
type pages struct {
	renderer *inertia.Renderer
	logger   *slog.Logger
}

// render writes a page with the shared props every component receives
func (p pages) render(w http.ResponseWriter, r *http.Request, status int, component string, props inertia.Props) {
	if props == nil {
		props = inertia.Props{}
	}
	var authProps map[string]any
	if player := middleware.GetPlayer(r.Context()); player != nil {
		authProps = map[string]any{
			"id":           player.ID,
			"username":     player.Username,
			"display_name": player.DisplayName,
			"gold":         player.Gold,
			"energy":       player.Energy,
			"max_energy":   player.MaxEnergy,
			"location":     player.CurrentLocation,
		}
	}
	props["auth"] = authProps
	props["flash"] = middleware.GetFlash(r.Context())
	p.renderer.Render(w, r, status, component, props)
}

// renderError maps err to a status and renders the Error page
func (p pages) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		p.logger.Error("page failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	p.render(w, r, status, "Error", inertia.Props{
		"status":  status,
		"message": message,
	})
}

// errorStatus follows the same categories as the JSON API
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrKingdomNotFound):
		return http.StatusNotFound, "That kingdom does not exist."
	case errors.Is(err, model.ErrHouseNotFound):
		return http.StatusNotFound, "That house does not exist."
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "Page not found."
	case errors.Is(err, model.ErrNotHouseOwner):
		return http.StatusForbidden, "You do not own this house."
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, "Someone else changed this at the same time. Please try again."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again later."
	}
}

// safeNext keeps redirects on this site
func safeNext(next, fallback string) string {
	if len(next) > 1 && next[0] == '/' && next[1] != '/' && next[1] != '\\' {
		return next
	}
	if next == "/" {
		return next
	}
	return fallback
}
