package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/cartconsole/internal/client"
	"github.com/erazemk/cartconsole/internal/model"
	"github.com/erazemk/cartconsole/internal/store"
)

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	settings, err := s.apiSettings(r.Context())
	data := &PageData{Title: "Settings", API: settings}
	if err != nil {
		s.Logger.Error("failed to load api settings", "error", err)
		data.Error = "Could not load stored settings."
	}
	s.Templates.Render(w, "settings.html", data)
}

// SettingsSubmit handles POST /settings.
func (s *Server) SettingsSubmit(w http.ResponseWriter, r *http.Request) {
	settings := model.APISettings{
		BaseURL: strings.TrimSpace(r.FormValue("base_url")),
		Prefix:  client.NormalizePrefix(r.FormValue("prefix")),
	}

	u, err := url.Parse(settings.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		s.Templates.Render(w, "settings.html", &PageData{
			Title: "Settings",
			API:   settings,
			Error: "Enter an absolute http or https URL.",
		})
		return
	}

	if err := store.SaveAPISettings(r.Context(), s.DB, settings); err != nil {
		s.Logger.Error("failed to save api settings", "error", err)
		s.Templates.Render(w, "settings.html", &PageData{
			Title: "Settings",
			API:   settings,
			Error: "Could not save settings.",
		})
		return
	}

	s.Logger.Info("api settings updated", "base_url", settings.BaseURL, "prefix", settings.Prefix)
	saved, _ := s.apiSettings(r.Context())
	s.Templates.Render(w, "settings.html", &PageData{
		Title:   "Settings",
		API:     saved,
		Success: "Settings saved.",
	})
}
