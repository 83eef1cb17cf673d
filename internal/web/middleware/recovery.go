package middleware

import (
	"log/slog"
	"net/http"

	"github.com/djasnowski/myrefell-sub008/internal/middleware"
	"github.com/djasnowski/myrefell-sub008/internal/web/inertia"
)

// Recovery creates panic recovery middleware for the web interface
// Renders the Error page on panic
func Recovery(logger *slog.Logger, renderer *inertia.Renderer) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		renderer.Render(w, r, http.StatusInternalServerError, "Error", inertia.Props{
			"status":  http.StatusInternalServerError,
			"message": "Something went wrong. Please try again later.",
		})
	})
}
