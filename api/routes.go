package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/podhub/api/auth"
	"github.com/killallgit/podhub/api/episodes"
	"github.com/killallgit/podhub/api/feeds"
	"github.com/killallgit/podhub/api/health"
	"github.com/killallgit/podhub/api/types"
	"github.com/killallgit/podhub/api/version"
	_ "github.com/killallgit/podhub/docs/swagger"
	"github.com/killallgit/podhub/pkg/config"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, cfg *config.Config, deps *types.Dependencies, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if deps == nil || deps.Feeds == nil || deps.Catalog == nil || deps.Auth == nil {
		return fmt.Errorf("feed, catalog and auth services are required")
	}

	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	if cfg.Monitoring.Enabled {
		engine.GET(cfg.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	apiGroup := engine.Group("/api")
	if cfg.RateLimiting.Enabled {
		apiGroup.Use(PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized,
			cfg.RateLimiting.RequestsPerMinute, cfg.RateLimiting.Burst))
	}

	feeds.RegisterRoutes(apiGroup.Group("/feeds"), deps)
	episodes.RegisterRoutes(apiGroup.Group("/episodes"), deps)
	auth.RegisterRoutes(apiGroup.Group("/auth"), deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Status:  types.StatusError,
			Message: "The requested endpoint was not found",
			Error:   string(apperrors.ErrCodeNotFound),
			Details: gin.H{"path": c.Request.URL.Path},
		})
	}
}
