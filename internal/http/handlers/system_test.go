package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopadmin/internal/cache"
	"shopadmin/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheStatus(t *testing.T, hd *Handlers) map[string]any {
	t.Helper()
	r := gin.New()
	r.GET("/cache-stats", hd.CacheStatus)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cache-stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCacheStatusDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := cacheStatus(t, New(&Handlers{Log: utils.Discard()}))
	assert.Equal(t, map[string]any{"enabled": false}, body)
}

func TestCacheStatusReportsUnreachableRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	body := cacheStatus(t, New(&Handlers{Log: utils.Discard(), Cache: cache.New(client, "test:", time.Minute)}))
	assert.Equal(t, true, body["enabled"])
	assert.Equal(t, false, body["reachable"])
	assert.Contains(t, body, "stats")
}
