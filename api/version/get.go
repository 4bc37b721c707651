package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
)

// Version is reported when no build version is injected
const Version = "1.0.0"

// Get handles version requests
// @Summary Service version
// @Tags health
// @Produce json
// @Success 200 {object} types.VersionResponse
// @Router / [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := Version
	if deps != nil && deps.Version != "" {
		version = deps.Version
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, types.VersionResponse{
			Name:        "podhub",
			Version:     version,
			Description: "Normalized podcast feeds from the content API",
			Status:      "running",
		})
	}
}
