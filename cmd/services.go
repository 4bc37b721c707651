package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/killallgit/podhub/internal/database"
	"github.com/killallgit/podhub/internal/models"
	"github.com/killallgit/podhub/internal/services/auth"
	"github.com/killallgit/podhub/internal/services/catalog"
	"github.com/killallgit/podhub/internal/services/feeds"
	"github.com/killallgit/podhub/internal/services/summaries"
	"github.com/killallgit/podhub/internal/services/upstream"
	"github.com/killallgit/podhub/pkg/config"
)

// services is the wired service graph shared by serve, feeds and ingest
type services struct {
	db       *database.DB
	client   *upstream.Client
	cache    *feeds.Cache
	ingestor *feeds.Ingestor
	catalog  *catalog.Service
	store    *summaries.Repository
}

func buildServices(cfg *config.Config) (*services, error) {
	s := &services{client: upstream.NewClient(cfg.Upstream)}

	var ingestOpts []feeds.IngestorOption
	if cfg.Cache.Enabled {
		s.cache = feeds.NewCache(cfg.Cache.FeedTTL, cfg.Cache.CleanupInterval)
		ingestOpts = append(ingestOpts, feeds.WithCache(s.cache))
	}
	s.ingestor = feeds.NewIngestor(s.client, ingestOpts...)

	catalogOpts := []catalog.Option{
		catalog.WithMaxConcurrency(cfg.Catalog.MaxConcurrency),
		catalog.WithListRetries(cfg.Catalog.ListRetries, cfg.Catalog.RetryInterval),
		catalog.WithSessionCheck(auth.NewInspector()),
	}

	if cfg.Database.Path != "" {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.AutoMigrate(models.All()...); err != nil {
			_ = db.Close()
			s.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		s.db = db
		s.store = summaries.NewRepository(db.DB)
		catalogOpts = append(catalogOpts, catalog.WithStore(s.store))
	} else {
		log.Warn("No database configured, feed lists will not be persisted")
	}

	s.catalog = catalog.NewService(s.client, s.ingestor, catalogOpts...)

	log.WithFields(log.Fields{
		"upstream": s.client.BaseURL(),
		"cache":    cfg.Cache.Enabled,
		"database": cfg.Database.Path,
	}).Debug("Services initialized")

	return s, nil
}

// Close stops the cache cleanup and closes the database
func (s *services) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}
}
