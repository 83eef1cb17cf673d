package handler

import (
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/api/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/api/request"
	"github.com/djasnowski/myrefell-sub008/internal/api/response"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/services/location"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	authService     *auth.Service
	locationService *location.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, locationService *location.Service) *PlayerHandler {
	return &PlayerHandler{
		authService:     authService,
		locationService: locationService,
	}
}

// CreateGuest handles POST /api/v1/players/guest
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	req, err := request.Decode[request.CreateGuestRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := request.Decode[request.RegisterRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := request.Decode[request.LoginRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/players/logout
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Travel handles POST /api/v1/players/me/travel
func (h *PlayerHandler) Travel(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	req, err := request.Decode[request.TravelRequest](w, r)
	if err != nil {
		WriteError(w, err)
		return
	}

	target := model.Location{Type: model.LocationType(req.Type), ID: req.ID}
	updated, err := h.locationService.Travel(r.Context(), player.ID, target)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(updated))
}
