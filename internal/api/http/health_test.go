package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRequest(t *testing.T, rdb *redis.Client, path string) HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewHealthHandler("patchwork-backend", "1.0.0", rdb).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheck_NoStore(t *testing.T) {
	body := healthRequest(t, nil, "/health")
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "patchwork-backend", body.Service)
	assert.Equal(t, "1.0.0", body.Version)
	assert.Equal(t, "disabled", body.Store)
}

func TestHealthCheck_StoreUp(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	body := healthRequest(t, rdb, "/healthz")
	assert.Equal(t, "up", body.Store)
}

func TestHealthCheck_StoreDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	body := healthRequest(t, rdb, "/health")
	assert.Equal(t, "down", body.Store)
}
