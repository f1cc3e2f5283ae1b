package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/db"
)

// HealthCheck reports liveness plus the reachability of the database and,
// when configured, Redis. Feed subscribers and background jobs are listed
// for information and never degrade the status.
func (h *Handler) HealthCheck(ctx *gin.Context) {
	rctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	if err := db.Ping(rctx, h.db); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(rctx).Err(); err != nil {
			checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.hub != nil {
		checks["websocket_clients"] = h.hub.Clients()
	}
	if h.jobs != nil {
		checks["jobs"] = h.jobs.Status()
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}

	ctx.JSON(status, gin.H{
		"status":    state,
		"message":   "House is running",
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
