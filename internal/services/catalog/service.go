// Package catalog assembles the feeds visible to a caller from the content
// API's list endpoints and the feed ingestor.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/killallgit/podhub/internal/models"
	"github.com/killallgit/podhub/internal/services/feeds"
	"github.com/killallgit/podhub/internal/services/summaries"
)

// Service loads catalogs and looks up episodes across them.
type Service struct {
	lister         Lister
	ingestor       feeds.FeedIngestor
	store          SummaryStore
	sessions       SessionChecker
	maxConcurrency int
	listRetries    int
	retryInterval  time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithStore persists fetched public lists and serves them when the content
// API is unreachable.
func WithStore(store SummaryStore) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithSessionCheck checks the caller's JWT before private lists are fetched.
func WithSessionCheck(sessions SessionChecker) Option {
	return func(s *Service) {
		s.sessions = sessions
	}
}

// WithMaxConcurrency bounds how many feeds are ingested at once.
func WithMaxConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

// WithListRetries sets how often a failed list fetch is retried and the
// initial delay between attempts.
func WithListRetries(retries int, interval time.Duration) Option {
	return func(s *Service) {
		if retries >= 0 {
			s.listRetries = retries
		}
		if interval > 0 {
			s.retryInterval = interval
		}
	}
}

// NewService creates a catalog service
func NewService(lister Lister, ingestor feeds.FeedIngestor, opts ...Option) *Service {
	s := &Service{
		lister:         lister,
		ingestor:       ingestor,
		maxConcurrency: DefaultMaxConcurrency,
		listRetries:    DefaultListRetries,
		retryInterval:  DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns every public feed and, when jwt is set, the caller's private
// feeds normalized with userToken. A feed that fails to ingest is listed
// with its list metadata and no episodes, and the failure is recorded in
// Errors. Only an unavailable public list fails the call.
func (s *Service) Load(ctx context.Context, jwt, userToken string) (*Catalog, error) {
	public, stale, err := s.publicSummaries(ctx)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		Private: []*feeds.Feed{},
		Errors:  []FeedError{},
		Stale:   stale,
	}

	var errs []FeedError
	cat.Public, errs = s.ingestAll(ctx, public, "")
	cat.Errors = append(cat.Errors, errs...)

	if jwt == "" {
		return cat, nil
	}

	private, err := s.privateSummaries(ctx, jwt)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch private feed list")
		cat.Errors = append(cat.Errors, FeedError{Message: fmt.Sprintf("private feeds: %v", err)})
		return cat, nil
	}

	publicSlugs := lo.Map(public, func(f feeds.FeedSummary, _ int) string { return f.Slug })
	private = lo.Filter(private, func(f feeds.FeedSummary, _ int) bool {
		return !lo.Contains(publicSlugs, f.Slug)
	})

	cat.Private, errs = s.ingestAll(ctx, private, userToken)
	cat.Errors = append(cat.Errors, errs...)

	return cat, nil
}

// FindEpisode searches the public feeds for guid, then the caller's private
// feeds when jwt is set.
func (s *Service) FindEpisode(ctx context.Context, guid, jwt, userToken string) (*EpisodeMatch, error) {
	public, _, err := s.publicSummaries(ctx)
	if err != nil {
		return nil, err
	}

	publicFeeds, _ := s.ingestAll(ctx, public, "")
	if match := s.match(publicFeeds, guid, userToken); match != nil {
		return match, nil
	}

	if jwt == "" {
		return nil, ErrEpisodeNotFound
	}

	private, err := s.privateSummaries(ctx, jwt)
	if err != nil {
		return nil, fmt.Errorf("listing private feeds: %w", err)
	}

	privateFeeds, _ := s.ingestAll(ctx, private, userToken)
	if match := s.match(privateFeeds, guid, userToken); match != nil {
		match.Private = true
		return match, nil
	}

	return nil, ErrEpisodeNotFound
}

// BaseFor returns the stored list record of slug, or nil when none is known.
func (s *Service) BaseFor(ctx context.Context, slug string) *feeds.FeedSummary {
	if s.store == nil {
		return nil
	}

	base, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, summaries.ErrSummaryNotFound) {
			log.WithError(err).WithField("slug", slug).Warn("Failed to read stored feed summary")
		}
		return nil
	}
	return base
}

// DownloadURL builds the content API download link of an episode.
func (s *Service) DownloadURL(guid, token string) string {
	return s.lister.DownloadURL(guid, token)
}

func (s *Service) publicSummaries(ctx context.Context) ([]feeds.FeedSummary, bool, error) {
	list, err := s.list(ctx, "public", s.lister.ListPublicFeeds)
	if err == nil {
		if s.store != nil {
			if perr := s.store.ReplaceVisibility(ctx, models.VisibilityPublic, list); perr != nil {
				log.WithError(perr).Warn("Failed to persist public feed list")
			}
		}
		return list, false, nil
	}

	if s.store != nil {
		stored, serr := s.store.List(ctx, models.VisibilityPublic)
		if serr == nil && len(stored) > 0 {
			log.WithError(err).WithField("count", len(stored)).Warn("Serving stored public feed list")
			return stored, true, nil
		}
	}

	return nil, false, fmt.Errorf("%w: %w", ErrNoFeedList, err)
}

func (s *Service) privateSummaries(ctx context.Context, jwt string) ([]feeds.FeedSummary, error) {
	if s.sessions != nil {
		if err := s.sessions.CheckSession(jwt); err != nil {
			return nil, err
		}
	}
	return s.list(ctx, "private", func(ctx context.Context) ([]feeds.FeedSummary, error) {
		return s.lister.ListPrivateFeeds(ctx, jwt)
	})
}

// list runs fetch with exponential backoff. Client errors are not retried.
func (s *Service) list(ctx context.Context, visibility string, fetch func(context.Context) ([]feeds.FeedSummary, error)) ([]feeds.FeedSummary, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.retryInterval
	b.MaxInterval = s.retryInterval * 8
	b.MaxElapsedTime = 0

	var result []feeds.FeedSummary
	attempt := 0
	operation := func() error {
		attempt++
		list, err := fetch(ctx)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			log.WithFields(log.Fields{
				"visibility": visibility,
				"attempt":    attempt,
				"error":      err,
			}).Debug("Feed list fetch failed")
			return err
		}
		result = list
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.listRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	if result == nil {
		result = []feeds.FeedSummary{}
	}
	return result, nil
}

// ingestAll normalizes every listed feed, keeping list order.
func (s *Service) ingestAll(ctx context.Context, list []feeds.FeedSummary, token string) ([]*feeds.Feed, []FeedError) {
	out := make([]*feeds.Feed, len(list))
	failures := make([]error, len(list))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, summary := range list {
		i, summary := i, summary
		g.Go(func() error {
			base := summary
			feed, err := s.ingestor.Ingest(ctx, summary.Slug, token, &base)
			if err != nil {
				failures[i] = err
				out[i] = feeds.EmptyFeed(summary)
				return nil
			}
			out[i] = feed
			return nil
		})
	}
	_ = g.Wait()

	errs := []FeedError{}
	for i, err := range failures {
		if err == nil {
			continue
		}
		log.WithFields(log.Fields{
			"slug":  list[i].Slug,
			"error": err,
		}).Warn("Feed could not be loaded")
		errs = append(errs, FeedError{Slug: list[i].Slug, Message: err.Error()})
	}

	return out, errs
}

func (s *Service) match(list []*feeds.Feed, guid, userToken string) *EpisodeMatch {
	feed, ok := lo.Find(list, func(f *feeds.Feed) bool {
		_, found := f.FindEpisode(guid)
		return found
	})
	if !ok {
		return nil
	}

	episode, _ := feed.FindEpisode(guid)
	return &EpisodeMatch{
		Episode:     *episode,
		Feed:        feed,
		DownloadURL: s.lister.DownloadURL(episode.GUID, userToken),
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		code := sc.HTTPStatus()
		if code >= 400 && code < 500 {
			return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
		}
	}
	return true
}
