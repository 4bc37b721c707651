package types

import "github.com/killallgit/podhub/internal/services/feeds"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// EpisodeFeed is the feed context returned with a single episode
type EpisodeFeed struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Cover    string `json:"cover"`
	IsPublic bool   `json:"isPublic"`
}

// EpisodeResponse for a single episode lookup
type EpisodeResponse struct {
	Episode       feeds.Episode `json:"episode"`
	Feed          EpisodeFeed   `json:"feed"`
	DownloadURL   string        `json:"downloadUrl"`
	DurationLabel string        `json:"durationLabel"` // e.g. "1h 2m 5s"
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

// VersionResponse for the root endpoint
type VersionResponse struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
