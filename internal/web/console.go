package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/cartconsole/internal/client"
	"github.com/erazemk/cartconsole/internal/console"
	"github.com/erazemk/cartconsole/internal/model"
	"github.com/erazemk/cartconsole/internal/store"
)

// resultsField is the hidden form field that carries the displayed rows from one
// action to the next.
const resultsField = "shopcart_results"

type consolePage struct {
	PageData
	View    console.View
	Columns []string
}

// ResultsState encodes the displayed rows for resultsField.
func (p *consolePage) ResultsState() (string, error) {
	if len(p.View.Results) == 0 {
		return "", nil
	}
	data, err := json.Marshal(p.View.Results)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeResults reads the rows echoed back in resultsField. An empty value means
// no rows.
func decodeResults(value string) ([]model.Item, error) {
	if value == "" {
		return nil, nil
	}
	var items []model.Item
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ConsolePage handles GET /.
func (s *Server) ConsolePage(w http.ResponseWriter, r *http.Request) {
	settings, err := s.apiSettings(r.Context())
	if err != nil {
		s.Logger.Error("failed to load api settings", "error", err)
	}
	s.renderConsole(w, console.View{}, settings)
}

// ActionSubmit returns the handler for POST /{action}. The outcome is reported in
// the flash, so the page is always rendered with 200.
func (s *Server) ActionSubmit(action console.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := s.Logger.With(slog.String("op", "web.ActionSubmit"), slog.String("action", string(action)))

		form := console.Form{
			CustomerID: r.FormValue("shopcart_customer_id"),
			ProductID:  r.FormValue("shopcart_product_id"),
			Quantity:   r.FormValue("shopcart_quantity"),
			Price:      r.FormValue("shopcart_price"),
			Checkout:   r.FormValue("shopcart_checkout"),
		}

		rows, err := decodeResults(r.FormValue(resultsField))
		if err != nil {
			logger.Warn("dropping unreadable results state", "error", err)
		}

		settings, err := s.apiSettings(r.Context())
		if err != nil {
			logger.Error("failed to load api settings", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		c := console.New(client.New(settings.BaseURL, settings.Prefix, s.HTTP), s.Logger)
		view, err := c.Run(r.Context(), action, console.View{Form: form, Results: rows})
		if err != nil {
			logger.Error("console action failed", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		logger.Debug("console action done", "flash", view.Flash.Kind, "rows", len(view.Results))
		s.renderConsole(w, view, settings)
	}
}

func (s *Server) renderConsole(w http.ResponseWriter, view console.View, settings model.APISettings) {
	s.Templates.Render(w, "console.html", &consolePage{
		PageData: PageData{Title: "Shopcarts", API: settings},
		View:     view,
		Columns:  console.Columns,
	})
}

// apiSettings returns the stored API location over the configured defaults,
// with the prefix normalized.
func (s *Server) apiSettings(ctx context.Context) (model.APISettings, error) {
	settings, err := store.GetAPISettings(ctx, s.DB, s.Defaults)
	settings.Prefix = client.NormalizePrefix(settings.Prefix)
	return settings, err
}
