package catalog

import (
	"errors"
	"time"

	"github.com/killallgit/podhub/internal/services/feeds"
)

const (
	DefaultMaxConcurrency = 4
	DefaultListRetries    = 2
	DefaultRetryInterval  = 500 * time.Millisecond
)

// ErrEpisodeNotFound is returned when no visible feed has an episode with
// the requested GUID
var ErrEpisodeNotFound = errors.New("episode not found")

// ErrNoFeedList is returned when the public list can neither be fetched nor
// read from the store
var ErrNoFeedList = errors.New("public feed list unavailable")

// Catalog is every feed visible to a caller, normalized.
type Catalog struct {
	Public  []*feeds.Feed `json:"public"`
	Private []*feeds.Feed `json:"private"`
	Errors  []FeedError   `json:"errors"`
	// Stale is set when the public list came from the store because the
	// content API could not be reached.
	Stale bool `json:"stale"`
}

// FeedError describes a feed (or list) that could not be loaded.
type FeedError struct {
	Slug    string `json:"slug,omitempty"`
	Message string `json:"message"`
}

// EpisodeMatch is an episode together with the feed it was found in.
type EpisodeMatch struct {
	Episode     feeds.Episode
	Feed        *feeds.Feed
	DownloadURL string
	Private     bool
}
