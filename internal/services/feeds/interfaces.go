package feeds

import "context"

// DocumentFetcher retrieves the raw RSS document of a feed. An empty token
// requests the public document.
type DocumentFetcher interface {
	FetchFeedXML(ctx context.Context, slug, token string) (string, error)
}

// DocumentCache stores raw feed documents between requests
type DocumentCache interface {
	Get(key string) (string, bool)
	Set(key, doc string)
	Invalidate(key string)
	InvalidatePattern(pattern string)
	Clear()
	Stop()
}

// FeedIngestor fetches and normalizes a single feed.
type FeedIngestor interface {
	Ingest(ctx context.Context, slug, token string, base *FeedSummary) (*Feed, error)
}

// CacheKeyGenerator defines the interface for generating cache keys
type CacheKeyGenerator interface {
	Document(slug, token string) string
	SlugPattern(slug string) string
}

// statusCoder is implemented by upstream errors that carry an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}
