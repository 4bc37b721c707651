package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrBodyTooLarge = errors.New("response body too large")
)

// APIError is a non-success response from the content API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e APIError) Error() string {
	return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// HTTPStatus returns the upstream status code
func (e APIError) HTTPStatus() int {
	return e.StatusCode
}

func (e APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) error {
	return APIError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Message:    message,
	}
}
