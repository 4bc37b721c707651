package types

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/killallgit/podhub/internal/services/auth"
	"github.com/killallgit/podhub/internal/services/catalog"
	"github.com/killallgit/podhub/internal/services/feeds"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// FeedTokenHeader carries the caller's private feed token
const FeedTokenHeader = "X-Feed-Token"

// BearerToken returns the JWT from an "Authorization: Bearer" header, or ""
func BearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// FeedToken returns the caller's feed token from the token query parameter
// or the X-Feed-Token header
func FeedToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token
	}
	return strings.TrimSpace(c.GetHeader(FeedTokenHeader))
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		appErr := bindingError(err)
		c.JSON(appErr.GetHTTPCode(), ErrorBody(appErr))
		return false
	}
	return true
}

// bindingError reports the first failed binding rule by its lowercased field name
func bindingError(err error) *apperrors.AppError {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "Invalid request body")
	}
	field := strings.ToLower(invalid[0].Field())
	if invalid[0].Tag() == "required" {
		return apperrors.MissingFieldError(field).WithCause(err)
	}
	return apperrors.ValidationError(field, invalid[0].Tag()).WithCause(err)
}

// ErrorBody renders an AppError as the JSON error envelope
func ErrorBody(appErr *apperrors.AppError) ErrorResponse {
	body := ErrorResponse{
		Status:  StatusError,
		Message: appErr.Message,
		Error:   string(appErr.Code),
	}
	if len(appErr.Details) > 0 {
		body.Details = appErr.Details
	}
	return body
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendError translates err into an AppError and writes it as the response
func SendError(c *gin.Context, err error) {
	appErr := ToAppError(err)
	status := appErr.GetHTTPCode()

	entry := log.WithFields(log.Fields{
		"path":   c.Request.URL.Path,
		"status": status,
		"code":   appErr.Code,
		"error":  err,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}

	c.JSON(status, ErrorBody(appErr))
}

// ToAppError maps domain errors onto application errors
func ToAppError(err error) *apperrors.AppError {
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}

	var malformed feeds.MalformedFeedError
	if errors.As(err, &malformed) {
		return apperrors.MalformedFeed(malformed.Slug, malformed.DocumentType, err)
	}

	var unavailable feeds.FeedUnavailableError
	if errors.As(err, &unavailable) {
		if unavailable.Timeout {
			return apperrors.TimeoutError("loading feed", err).
				WithDetail("slug", unavailable.Slug)
		}
		return apperrors.FeedUnavailable(unavailable.Slug, unavailable.StatusCode, err)
	}

	switch {
	case errors.Is(err, catalog.ErrEpisodeNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "episode not found")
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "session expired")
	case errors.Is(err, catalog.ErrNoFeedList):
		return apperrors.ExternalServiceError("content API", err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.TimeoutError("request", err)
	}

	return apperrors.Wrap(err, apperrors.ErrCodeInternal, "internal server error")
}
