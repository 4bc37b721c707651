package episodes

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
)

// RegisterRoutes registers episode routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/episodes/:guid - Episode with its feed and download link
	router.GET("/:guid", GetByGUID(deps))

	// GET /api/episodes/:guid/download - Redirect to the content API
	router.GET("/:guid/download", Download(deps))
}
