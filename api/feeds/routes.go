package feeds

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
)

func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/feeds
	router.GET("", List(deps))
	// GET /api/feeds/:slug
	router.GET("/:slug", Get(deps))
}
