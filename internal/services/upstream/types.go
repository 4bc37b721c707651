package upstream

import "time"

const (
	// DefaultTimeout bounds every request to the content API.
	DefaultTimeout = 10 * time.Second

	// MaxBodyBytes is the default cap on a response body. Larger bodies
	// are rejected rather than truncated.
	MaxBodyBytes = 32 << 20

	defaultUserAgent = "podhub/1.0"
)

// Endpoint labels used in metrics and errors
const (
	EndpointPublicFeeds  = "feeds_public"
	EndpointPrivateFeeds = "feeds_list"
	EndpointFeedDocument = "feed_document"
	EndpointLogin        = "auth_local"
)

// LoginRequest is the body of POST /auth/local
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResponse is returned by the content API on successful login
type LoginResponse struct {
	JWT  string `json:"jwt"`
	User User   `json:"user"`
}

// User is the authenticated account. Token grants access to the user's
// private feed documents and downloads.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// errorBody is the content API's error envelope
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}
