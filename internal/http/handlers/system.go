package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"shopadmin/internal/config"

	"github.com/gin-gonic/gin"
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func (h *Handlers) SetRouter(r *gin.Engine) {
	h.routerMu.Lock()
	defer h.routerMu.Unlock()
	h.router = r
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/db-check
func (h *Handlers) DBCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := config.PingDB(ctx, h.DB); err != nil {
		h.Log.Warn("database ping failed", "error", err)
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database is not reachable", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// GET /api/routes
func (h *Handlers) Routes(c *gin.Context) {
	h.routerMu.RLock()
	r := h.router
	h.routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

// GET /api/cache-stats
func (h *Handlers) CacheStatus(c *gin.Context) {
	if h.Cache == nil {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	reachable := true
	if err := h.Cache.Ping(ctx); err != nil {
		h.Log.Warn("redis ping failed", "error", err)
		reachable = false
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "reachable": reachable, "stats": h.Cache.Stats()})
}
