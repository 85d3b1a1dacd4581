package handlers

import (
	"net/http"
	"testing"

	"lexforge/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	t.Run("Database reachable", func(t *testing.T) {
		setupTestDB(t)
		_, c, rec := setupEcho(http.MethodGet, "/healthz", nil)
		require.NoError(t, HealthHandler(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Database missing", func(t *testing.T) {
		db.DB = nil
		_, c, rec := setupEcho(http.MethodGet, "/healthz", nil)
		require.NoError(t, HealthHandler(c))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
