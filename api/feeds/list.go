package feeds

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
)

// List returns every feed visible to the caller
// @Summary List feeds
// @Description Returns all public feeds and, for a logged in caller, their private feeds, each normalized.
// @Description Feeds that fail to load are listed without episodes and reported in errors.
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param X-Feed-Token header string false "Private feed token"
// @Success 200 {object} catalog.Catalog
// @Failure 502 {object} types.ErrorResponse "Feed list unavailable"
// @Router /api/feeds [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := deps.Catalog.Load(c.Request.Context(), types.BearerToken(c), types.FeedToken(c))
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, cat)
	}
}
