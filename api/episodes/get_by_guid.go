package episodes

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
	"github.com/killallgit/podhub/internal/services/catalog"
	"github.com/killallgit/podhub/internal/services/feeds"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// GetByGUID returns an episode with its feed and download link
// @Summary      Get episode by GUID
// @Description  Searches the public feeds for the episode, then the caller's private feeds when logged in.
// @Tags         episodes
// @Produce      json
// @Security     BearerAuth
// @Param        guid path string true "Episode GUID"
// @Param        token query string false "Private feed token"
// @Success      200 {object} types.EpisodeResponse "Episode with feed context"
// @Failure      404 {object} types.ErrorResponse "Episode not found"
// @Failure      502 {object} types.ErrorResponse "Feed list unavailable"
// @Router       /api/episodes/{guid} [get]
func GetByGUID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		guid := strings.TrimSpace(c.Param("guid"))
		if guid == "" {
			types.SendError(c, apperrors.MissingFieldError("guid"))
			return
		}

		match, err := deps.Catalog.FindEpisode(c.Request.Context(), guid, types.BearerToken(c), types.FeedToken(c))
		if errors.Is(err, catalog.ErrEpisodeNotFound) {
			types.SendError(c, apperrors.NotFound("episode", guid).WithCause(err))
			return
		}
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.EpisodeResponse{
			Episode: match.Episode,
			Feed: types.EpisodeFeed{
				Slug:     match.Feed.Slug,
				Title:    match.Feed.Title,
				Cover:    match.Feed.Cover,
				IsPublic: match.Feed.IsPublic,
			},
			DownloadURL:   match.DownloadURL,
			DurationLabel: feeds.FormatDuration(match.Episode.DurationSeconds),
		})
	}
}
