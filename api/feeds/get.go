package feeds

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
	"github.com/killallgit/podhub/internal/services/feeds"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// Get returns a single normalized feed
// @Summary Get a feed
// @Description Fetches the feed's RSS document from the content API and returns it normalized.
// @Description The stored list record, when known, fills in fields the document lacks.
// @Tags feeds
// @Produce json
// @Param slug path string true "Feed slug"
// @Param token query string false "Private feed token"
// @Param refresh query bool false "Bypass the document cache"
// @Success 200 {object} feeds.Feed
// @Failure 400 {object} types.ErrorResponse "Document has no RSS channel"
// @Failure 404 {object} types.ErrorResponse "Unknown slug"
// @Failure 502 {object} types.ErrorResponse "Content API unreachable"
// @Router /api/feeds/{slug} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := strings.TrimSpace(c.Param("slug"))
		if slug == "" {
			types.SendError(c, apperrors.MissingFieldError("slug"))
			return
		}

		if c.Query("refresh") == "true" {
			deps.Feeds.Invalidate(slug)
		}

		var base *feeds.FeedSummary
		if deps.Catalog != nil {
			base = deps.Catalog.BaseFor(c.Request.Context(), slug)
		}

		feed, err := deps.Feeds.Ingest(c.Request.Context(), slug, types.FeedToken(c), base)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, feed)
	}
}
