package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podhub/api/types"
	"github.com/killallgit/podhub/internal/services/upstream"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// Handler manages auth endpoints
type Handler struct {
	auth types.Authenticator
}

// NewHandler creates a new auth handler
func NewHandler(auth types.Authenticator) *Handler {
	return &Handler{auth: auth}
}

// Login exchanges credentials for a JWT and the user's feed token
// @Summary Log in
// @Description Forwards the credentials to the content API. The returned user token unlocks private feeds.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.LoginRequest true "Credentials"
// @Success 200 {object} upstream.LoginResponse
// @Failure 400 {object} types.ErrorResponse "Invalid request body"
// @Failure 401 {object} types.ErrorResponse "Login failed"
// @Failure 502 {object} types.ErrorResponse "Content API unavailable"
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !types.BindJSONOrError(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		types.SendError(c, loginError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// loginError reports rejected credentials as 401 with the content API's
// message and anything else as an upstream failure.
func loginError(err error) error {
	var apiErr upstream.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		message := apiErr.Message
		if message == "" {
			message = "Login failed"
		}
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, message)
	}
	return apperrors.ExternalServiceError("content API", err)
}

// RegisterRoutes registers auth routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	h := NewHandler(deps.Auth)

	// POST /api/auth/login
	router.POST("/login", h.Login)
}
