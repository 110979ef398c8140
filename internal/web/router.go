package web

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/cartconsole/internal/client"
	"github.com/erazemk/cartconsole/internal/config"
	"github.com/erazemk/cartconsole/internal/console"
	webembed "github.com/erazemk/cartconsole/web"
)

// NewRouter creates the console router with all page routes registered.
func NewRouter(db *sql.DB, api config.ShopcartAPIConfig, logger *slog.Logger) (http.Handler, error) {
	templates, err := LoadTemplates(logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:        db,
		Templates: templates,
		Logger:    logger,
		HTTP:      client.NewHTTPClient(api.Timeout),
		Defaults:  api.Settings(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.Static))))
	r.Get("/healthz", s.Health)

	r.Get("/", s.ConsolePage)
	for _, action := range console.Actions {
		r.Post("/"+string(action), s.ActionSubmit(action))
	}

	r.Get("/settings", s.SettingsPage)
	r.Post("/settings", s.SettingsSubmit)

	return r, nil
}
