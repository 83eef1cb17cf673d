package middleware

import (
	"log/slog"
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
)

// Logging logs page requests under component=web. Client-side visits
// (X-Inertia set) are tagged inertia=true so full page loads and
// in-app navigation can be told apart.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	base := logger.With(slog.String("component", "web"))
	full := middleware.Logging(base.With(slog.Bool("inertia", false)))
	visit := middleware.Logging(base.With(slog.Bool("inertia", true)))

	return func(next http.Handler) http.Handler {
		fullNext, visitNext := full(next), visit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(inertia.HeaderInertia) != "" {
				visitNext.ServeHTTP(w, r)
				return
			}
			fullNext.ServeHTTP(w, r)
		})
	}
}
