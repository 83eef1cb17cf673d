// Package inertia renders pages as a named component plus props. Clients
// that send X-Inertia get the page object as JSON; everyone else gets an
// HTML shell carrying the same object in data-page.
package inertia

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/djasnowski/myrefell-sub008/internal/web/templates/layout"
)

// Protocol headers
const (
	HeaderInertia  = "X-Inertia"
	HeaderVersion  = "X-Inertia-Version"
	HeaderLocation = "X-Inertia-Location"
)

// Props are the data handed to a page component
type Props map[string]any

// Page is the object every response carries
type Page struct {
	Component string `json:"component"`
	Props     Props  `json:"props"`
	URL       string `json:"url"`
	Version   string `json:"version"`
}

// Renderer writes pages. Version identifies the client bundle; a client
// holding another version is told to reload.
type Renderer struct {
	version string
	title   string
	logger  *slog.Logger
}

// New creates a Renderer
func New(version, title string, logger *slog.Logger) *Renderer {
	return &Renderer{
		version: version,
		title:   title,
		logger:  logger.With(slog.String("component", "inertia")),
	}
}

// Version returns the asset version pages are stamped with
func (re *Renderer) Version() string {
	return re.version
}

// IsInertia reports whether the request came from the client-side router
func IsInertia(r *http.Request) bool {
	return r.Header.Get(HeaderInertia) == "true"
}

// Render writes component with props at the given status
func (re *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, component string, props Props) {
	if props == nil {
		props = Props{}
	}
	page := Page{
		Component: component,
		Props:     props,
		URL:       r.URL.RequestURI(),
		Version:   re.version,
	}

	w.Header().Add("Vary", HeaderInertia)

	if IsInertia(r) {
		if r.Method == http.MethodGet && r.Header.Get(HeaderVersion) != "" && r.Header.Get(HeaderVersion) != re.version {
			// Stale client bundle: force a full reload
			w.Header().Set(HeaderLocation, page.URL)
			w.WriteHeader(http.StatusConflict)
			return
		}

		w.Header().Set(HeaderInertia, "true")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(page); err != nil {
			re.logger.Error("failed to encode page",
				slog.String("component", component),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	raw, err := json.Marshal(page)
	if err != nil {
		re.logger.Error("failed to encode page",
			slog.String("component", component),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	templ.Handler(layout.Shell(re.title, component, string(raw)), templ.WithStatus(status)).ServeHTTP(w, r)
}

// Redirect sends the client to url after a form submission. 303 makes
// browsers and the client-side router follow with a GET.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
