package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realtime-service/internal/store"
	"realtime-service/internal/telemetry"
)

// RegisterDebugRoutes wires debug-only endpoints.
func RegisterDebugRoutes(router *gin.Engine, emitter *telemetry.AuditEmitter, sessions store.SessionRegistry, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		emitter.Emit(c.Request.Context(), "INFO", "audit test", requestIDFromContext(c), userIDFromContext(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/debug/presence/:user_id", func(c *gin.Context) {
		userID := c.Param("user_id")
		connID, online := sessions.ResolveConnection(userID)
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"online":  online,
			"conn_id": connID,
		})
	})
}
