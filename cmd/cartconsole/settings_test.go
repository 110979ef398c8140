package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/cartconsole/internal/config"
	"github.com/erazemk/cartconsole/internal/db"
	"github.com/erazemk/cartconsole/internal/model"
	"github.com/erazemk/cartconsole/internal/store"
)

var configuredAPI = config.ShopcartAPIConfig{BaseURL: "http://localhost:8080", Prefix: "/shopcarts"}

func TestResolveAPIUsesSavedSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.sqlite3")

	database, err := db.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(database))
	require.NoError(t, store.SaveAPISettings(context.Background(), database, model.APISettings{
		BaseURL: "http://carts.internal:5000",
		Prefix:  "/api/shopcarts",
	}))
	require.NoError(t, database.Close())

	settings, err := resolveAPI(context.Background(), configuredAPI, path)
	require.NoError(t, err)
	assert.Equal(t, model.APISettings{BaseURL: "http://carts.internal:5000", Prefix: "/api/shopcarts"}, settings)
}

func TestResolveAPIWithoutDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sqlite3")

	settings, err := resolveAPI(context.Background(), configuredAPI, path)
	require.NoError(t, err)
	assert.Equal(t, configuredAPI.Settings(), settings)
	assert.NoFileExists(t, path)
}
