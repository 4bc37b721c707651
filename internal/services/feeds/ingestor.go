package feeds

import (
	"context"
	"errors"
	"net"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/killallgit/podhub/internal/metrics"
)

// Ingestor fetches feed documents and normalizes them.
type Ingestor struct {
	fetcher    DocumentFetcher
	normalizer *Normalizer
	cache      DocumentCache
	keyGen     CacheKeyGenerator
}

// IngestorOption is a functional option for configuring the ingestor
type IngestorOption func(*Ingestor)

// WithCache caches fetched documents. Documents are cached rather than
// feeds because the same document is normalized against different bases.
func WithCache(cache DocumentCache) IngestorOption {
	return func(i *Ingestor) {
		i.cache = cache
	}
}

// WithClock sets the clock used for items without a publication date
func WithClock(now func() time.Time) IngestorOption {
	return func(i *Ingestor) {
		i.normalizer = NewNormalizer(now)
	}
}

// NewIngestor creates an ingestor reading documents from fetcher
func NewIngestor(fetcher DocumentFetcher, opts ...IngestorOption) *Ingestor {
	i := &Ingestor{
		fetcher:    fetcher,
		normalizer: defaultNormalizer,
		keyGen:     NewKeyGenerator("feed"),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Ingest fetches the document for slug and normalizes it against base.
// Fetch failures are returned as FeedUnavailableError, documents without a
// channel as MalformedFeedError. There are no retries.
func (i *Ingestor) Ingest(ctx context.Context, slug, token string, base *FeedSummary) (*Feed, error) {
	start := time.Now()
	defer func() {
		metrics.FeedIngestDuration.Observe(time.Since(start).Seconds())
	}()

	key := i.keyGen.Document(slug, token)
	doc, cached := "", false
	if i.cache != nil {
		doc, cached = i.cache.Get(key)
	}

	if !cached {
		var err error
		doc, err = i.fetcher.FetchFeedXML(ctx, slug, token)
		if err != nil {
			metrics.FeedIngestions.WithLabelValues(metrics.ResultUnavailable).Inc()
			return nil, unavailable(slug, err)
		}
	}

	withSlug := FeedSummary{Slug: slug}
	if base != nil {
		withSlug = *base
		withSlug.Slug = slug
	}

	feed, err := i.normalizer.Normalize(doc, &withSlug)
	if err != nil {
		metrics.FeedIngestions.WithLabelValues(metrics.ResultMalformed).Inc()
		log.WithFields(log.Fields{
			"slug":   slug,
			"cached": cached,
		}).WithError(err).Warn("Feed document has no channel")
		return nil, err
	}

	if i.cache != nil && !cached {
		i.cache.Set(key, doc)
	}

	metrics.FeedIngestions.WithLabelValues(metrics.ResultOK).Inc()
	return feed, nil
}

// Invalidate drops every cached document of slug.
func (i *Ingestor) Invalidate(slug string) {
	if i.cache != nil {
		i.cache.InvalidatePattern(i.keyGen.SlugPattern(slug))
	}
}

func unavailable(slug string, err error) error {
	var existing FeedUnavailableError
	if errors.As(err, &existing) {
		if existing.Slug == "" {
			existing.Slug = slug
		}
		return existing
	}

	fe := FeedUnavailableError{Slug: slug, Err: err}

	var sc statusCoder
	if errors.As(err, &sc) {
		fe.StatusCode = sc.HTTPStatus()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		fe.Timeout = true
	}

	return fe
}
