package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/erazemk/cartconsole/internal/config"
	"github.com/erazemk/cartconsole/internal/db"
	"github.com/erazemk/cartconsole/internal/model"
	"github.com/erazemk/cartconsole/internal/store"
)

// resolveAPI returns the API location the web console would use: settings saved
// on its settings page over the configured defaults. A missing settings database
// is not created; the defaults are returned as they are.
func resolveAPI(ctx context.Context, api config.ShopcartAPIConfig, dbPath string) (model.APISettings, error) {
	defaults := api.Settings()
	if dbPath == "" {
		return defaults, nil
	}
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return defaults, err
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return defaults, err
	}
	return store.GetAPISettings(ctx, database, defaults)
}
