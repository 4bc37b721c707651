package types

import (
	"context"

	"github.com/killallgit/podhub/internal/database"
	"github.com/killallgit/podhub/internal/services/catalog"
	"github.com/killallgit/podhub/internal/services/feeds"
	"github.com/killallgit/podhub/internal/services/upstream"
)

// FeedService loads single feeds
type FeedService interface {
	Ingest(ctx context.Context, slug, token string, base *feeds.FeedSummary) (*feeds.Feed, error)
	Invalidate(slug string)
}

// CatalogService loads every feed visible to a caller
type CatalogService interface {
	Load(ctx context.Context, jwt, userToken string) (*catalog.Catalog, error)
	FindEpisode(ctx context.Context, guid, jwt, userToken string) (*catalog.EpisodeMatch, error)
	BaseFor(ctx context.Context, slug string) *feeds.FeedSummary
	DownloadURL(guid, token string) string
}

// Authenticator exchanges credentials with the content API
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*upstream.LoginResponse, error)
}

// SummaryCounter reports how many feed list records are stored
type SummaryCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB        *database.DB
	Summaries SummaryCounter
	Feeds     FeedService
	Catalog   CatalogService
	Auth      Authenticator
	Version   string
}
