package episodes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// Download redirects to the content API's download link
// @Summary      Download an episode
// @Description  Redirects to the episode's download URL on the content API, passing the feed token along.
// @Tags         episodes
// @Param        guid path string true "Episode GUID"
// @Param        token query string false "Private feed token"
// @Success      302 "Redirect to the download URL"
// @Failure      400 {object} types.ErrorResponse "Missing GUID"
// @Router       /api/episodes/{guid}/download [get]
func Download(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		guid := strings.TrimSpace(c.Param("guid"))
		if guid == "" {
			types.SendError(c, apperrors.MissingFieldError("guid"))
			return
		}

		c.Redirect(http.StatusFound, deps.Catalog.DownloadURL(guid, types.FeedToken(c)))
	}
}
