package feeds

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMalformedFeed   = errors.New("malformed feed")
	ErrFeedUnavailable = errors.New("feed unavailable")
	ErrFeedNotFound    = errors.New("feed not found")
)

// MalformedFeedError is returned when a document has no rss channel.
type MalformedFeedError struct {
	Slug string
	// DocumentType is what the document looked like instead: rss, atom,
	// json or unknown.
	DocumentType string
	Reason       string
}

func (e MalformedFeedError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("malformed feed (%s): %s", e.DocumentType, e.Reason)
	}
	return fmt.Sprintf("malformed feed %q (%s): %s", e.Slug, e.DocumentType, e.Reason)
}

func (e MalformedFeedError) Is(target error) bool {
	return target == ErrMalformedFeed
}

// FeedUnavailableError is returned when the feed document could not be
// fetched. StatusCode is the upstream status, 0 for transport failures.
type FeedUnavailableError struct {
	Slug       string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e FeedUnavailableError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("feed %q unavailable: timed out: %v", e.Slug, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("feed %q unavailable: upstream status %d", e.Slug, e.StatusCode)
	default:
		return fmt.Sprintf("feed %q unavailable: %v", e.Slug, e.Err)
	}
}

func (e FeedUnavailableError) Unwrap() error {
	return e.Err
}

func (e FeedUnavailableError) Is(target error) bool {
	if target == ErrFeedNotFound {
		return e.NotFound()
	}
	return target == ErrFeedUnavailable
}

// NotFound reports whether upstream does not know the slug.
func (e FeedUnavailableError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// EpisodeFieldError describes a single item field that could not be read
// and was replaced by its default. It is logged, never returned.
type EpisodeFieldError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e EpisodeFieldError) Error() string {
	return fmt.Sprintf("item %d: field %s: cannot use %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e EpisodeFieldError) Unwrap() error {
	return e.Err
}

// NewMalformedFeedError creates a MalformedFeedError
func NewMalformedFeedError(slug, documentType, reason string) error {
	return MalformedFeedError{Slug: slug, DocumentType: documentType, Reason: reason}
}

// IsMalformed reports whether err is a MalformedFeedError.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedFeed)
}

// IsUnavailable reports whether err is a FeedUnavailableError.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrFeedUnavailable)
}
