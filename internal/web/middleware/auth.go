package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/djasnowski/myrefell-sub008/internal/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
)

type playerKey struct{}

// SessionCookie names the cookie holding the session token
const SessionCookie = "session"

// GetPlayer returns the signed-in player, or nil for anonymous visitors
func GetPlayer(ctx context.Context) *model.Player {
	player, _ := ctx.Value(playerKey{}).(*model.Player)
	return player
}

// Auth sends anonymous visitors to the home page, remembering where they
// were headed in ?next=
func Auth(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player := sessionPlayer(w, r, authService, logger)
			if player == nil {
				http.Redirect(w, r, "/?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerKey{}, player)))
		})
	}
}

// OptionalAuth loads the player when there is a valid session and lets
// everyone through
func OptionalAuth(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if player := sessionPlayer(w, r, authService, logger); player != nil {
				r = r.WithContext(context.WithValue(r.Context(), playerKey{}, player))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionPlayer resolves the session cookie. A cookie the server no longer
// recognises is expired so the browser stops sending it.
func sessionPlayer(w http.ResponseWriter, r *http.Request, authService *auth.Service, logger *slog.Logger) *model.Player {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	player, err := authService.GetPlayer(r.Context(), cookie.Value)
	if err == nil {
		return player
	}

	if errors.Is(err, auth.ErrInvalidSession) || errors.Is(err, model.ErrPlayerNotFound) {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		return nil
	}
	logger.Warn("session lookup failed",
		slog.String("request_id", middleware.RequestID(r.Context())),
		slog.String("error", err.Error()),
	)
	return nil
}
