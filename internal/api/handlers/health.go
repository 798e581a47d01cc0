package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/database"
)

// HealthHandler reports liveness and the state of the service's dependencies.
type HealthHandler struct {
	db    *database.DB
	cache *services.CacheService
}

func NewHealthHandler(db *database.DB, cache *services.CacheService) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// GetHealth pings the database and Redis. The response is 200 while the
// database answers; a missing cache only degrades the status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	httpStatus := http.StatusOK
	components := gin.H{}

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			components["database"] = "down"
			status = "down"
			httpStatus = http.StatusServiceUnavailable
		} else {
			components["database"] = "ok"
		}
	} else {
		components["database"] = "not_configured"
		status = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	if h.cache.Enabled() {
		if err := h.cache.Ping(ctx); err != nil {
			components["cache"] = "down"
			if status == "ok" {
				status = "degraded"
			}
		} else {
			components["cache"] = "ok"
		}
	} else {
		components["cache"] = "disabled"
	}

	c.JSON(httpStatus, gin.H{
		"status":     status,
		"service":    "caddie-api",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": components,
	})
}
