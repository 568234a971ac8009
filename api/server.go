/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the upload page

ROUTES:
  POST /api/repartos           Upload the three files, download repartos.zip
  POST /api/repartos/preview   Same upload, JSON tables instead of the archive
  GET  /api/weekdays           Localized weekday table
  GET  /api/holiday-presets    Names accepted in holiday_preset
  GET  /healthz                Liveness
  GET  /metrics                Prometheus (when enabled)

SECURITY NOTE:
  No authentication. Each request is an independent run with no state
  kept between requests.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/reparto/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	AllowedOrigins []string

	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", RunIDHeader},
		AllowCredentials: false,
	}))

	r.Get("/healthz", h.Health)
	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/repartos", func(r chi.Router) {
			r.Post("/", h.GenerateArchive)
			r.Post("/preview", h.Preview)
		})
		r.Get("/weekdays", h.ListWeekdays)
		r.Get("/holiday-presets", h.ListHolidayPresets)
	})

	return r
}
