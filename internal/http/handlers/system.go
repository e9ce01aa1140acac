package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func reqCtx(c *gin.Context) context.Context {
	return WithRequestID(c.Request.Context(), middleware.GetRequestID(c))
}

func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "seat booking service running"})
}

func (a *API) DBCheck(c *gin.Context) {
	if a.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := a.DB.PingContext(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "database connection OK",
		"seat_ledger": intdb.HasTable(ctx, a.DB, "booking_seats"),
	})
}

func (a *API) Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method": rt.Method,
			"path":   rt.Path,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
