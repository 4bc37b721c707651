package catalog

import (
	"context"

	"github.com/killallgit/podhub/internal/services/feeds"
)

// Lister lists feed records and builds download links on the content API.
type Lister interface {
	ListPublicFeeds(ctx context.Context) ([]feeds.FeedSummary, error)
	ListPrivateFeeds(ctx context.Context, jwt string) ([]feeds.FeedSummary, error)
	DownloadURL(guid, token string) string
}

// SummaryStore keeps the last known feed lists
type SummaryStore interface {
	ReplaceVisibility(ctx context.Context, visibility string, list []feeds.FeedSummary) error
	List(ctx context.Context, visibility string) ([]feeds.FeedSummary, error)
	GetBySlug(ctx context.Context, slug string) (*feeds.FeedSummary, error)
}

// SessionChecker rejects session tokens that are known to be unusable
// before they reach the content API.
type SessionChecker interface {
	CheckSession(jwt string) error
}

type statusCoder interface {
	HTTPStatus() int
}
