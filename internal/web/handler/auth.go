package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
	"github.com/djasnowski/myrefell-sub008/internal/web/middleware"
)

// AuthHandler handles authentication actions
type AuthHandler struct {
	pages
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, renderer *inertia.Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		pages:       pages{renderer: renderer, logger: logger},
		authService: authService,
	}
}

// CreateGuest handles guest player creation
func (h *AuthHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		inertia.Redirect(w, r, "/")
		return
	}

	displayName := strings.TrimSpace(r.FormValue("display_name"))
	next := safeNext(r.FormValue("next"), "/")

	if displayName == "" {
		middleware.SetFlash(w, "error", "Display name is required")
		inertia.Redirect(w, r, "/")
		return
	}

	if len(displayName) > 20 {
		displayName = displayName[:20]
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), displayName)
	if err != nil {
		middleware.SetFlash(w, "error", "Failed to create guest player")
		inertia.Redirect(w, r, "/")
		return
	}

	setSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Welcome, "+displayName+"!")
	inertia.Redirect(w, r, next)
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		inertia.Redirect(w, r, "/")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	displayName := strings.TrimSpace(r.FormValue("display_name"))
	password := r.FormValue("password")
	if displayName == "" {
		displayName = username
	}
	// Forms without a confirmation field skip the check
	if confirm, ok := r.Form["password_confirm"]; ok && confirm[0] != password {
		middleware.SetFlash(w, "error", "Passwords do not match")
		inertia.Redirect(w, r, "/")
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), username, password, displayName)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUsernameTaken):
			middleware.SetFlash(w, "error", "Username already taken")
		case errors.Is(err, model.ErrValidation):
			_, msg := errorStatus(err)
			middleware.SetFlash(w, "error", msg)
		default:
			h.renderError(w, r, err)
			return
		}
		inertia.Redirect(w, r, "/")
		return
	}

	setSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Account created! Welcome, "+displayName+"!")
	inertia.Redirect(w, r, "/")
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form data")
		inertia.Redirect(w, r, "/")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"), "/")

	session, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		middleware.SetFlash(w, "error", "Invalid username or password")
		inertia.Redirect(w, r, "/")
		return
	}

	setSessionCookie(w, session.Token)
	middleware.SetFlash(w, "success", "Welcome back, "+session.Username+"!")
	inertia.Redirect(w, r, next)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		h.authService.InvalidateSession(cookie.Value)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, "info", "You have been logged out")
	inertia.Redirect(w, r, "/")
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
