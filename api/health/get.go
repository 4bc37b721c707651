package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
)

// Get handles health check requests
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} types.HealthResponse
// @Failure 503 {object} types.HealthResponse
// @Router /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		database := getDatabaseStatus(c.Request.Context(), deps)

		status, code := "ok", http.StatusOK
		if database["status"] == "unhealthy" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, types.HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services: map[string]interface{}{
				"database": database,
			},
		})
	}
}

// getDatabaseStatus returns the database connection status and the number
// of stored feed list records
func getDatabaseStatus(ctx context.Context, deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured"}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": "unhealthy", "error": err.Error()}
	}

	status := gin.H{"status": "healthy"}
	if deps.Summaries != nil {
		count, err := deps.Summaries.Count(ctx)
		if err != nil {
			return gin.H{"status": "unhealthy", "error": err.Error()}
		}
		status["feed_summaries"] = count
	}
	return status
}
