package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/api/apierr"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
)

type authKey struct{}

// principal is what Auth stores in the request context
type principal struct {
	session *auth.Session
	player  *model.Player
}

// Auth rejects requests without a live session. The player is loaded
// from storage on every request so handlers see current gold and energy.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := authService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}
			player, err := authService.GetPlayer(r.Context(), token)
			if errors.Is(err, model.ErrPlayerNotFound) {
				// Session outlived its player
				authService.InvalidateSession(token)
				err = auth.ErrInvalidSession
			}
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), authKey{}, principal{session: session, player: player})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken reads the Authorization header, falling back to the
// session cookie shared with the pages
func bearerToken(r *http.Request) string {
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie("session"); err == nil {
		return cookie.Value
	}
	return ""
}

// GetSession returns the session Auth validated, if any
func GetSession(ctx context.Context) *auth.Session {
	p, _ := ctx.Value(authKey{}).(principal)
	return p.session
}

// MustGetPlayer returns the authenticated player. Only handlers behind
// Auth may call it.
func MustGetPlayer(ctx context.Context) *model.Player {
	p, ok := ctx.Value(authKey{}).(principal)
	if !ok || p.player == nil {
		panic("no player in context: route is missing Auth")
	}
	return p.player
}
