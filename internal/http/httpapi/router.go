package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"gateway/internal/http/handlers"
	"gateway/internal/infra"
	"gateway/internal/middleware"
)

// NewRouter assembles the gateway's routes and middleware chain.
func NewRouter(app *handlers.App, cfg *infra.Config) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.I18N(cfg.DefaultLocale))

	r.Post("/api/generate", app.Generate)
	r.Post("/api/download-image", app.DownloadImage)
	r.Get("/api/templates", app.Templates)
	r.Get("/api/health", app.Health)

	r.NotFound(app.NotFound)

	return r
}
