// Package summaries stores the last known feed list records.
package summaries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/killallgit/podhub/internal/models"
	"github.com/killallgit/podhub/internal/services/feeds"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

// ErrSummaryNotFound is returned when no summary is stored for a slug
var ErrSummaryNotFound = errors.New("feed summary not found")

// Repository implements persistence for feed summaries
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository creates a new summary repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// ReplaceVisibility makes the stored summaries of a visibility match list:
// listed slugs are inserted or updated in list order and slugs no longer
// listed are removed.
func (r *Repository) ReplaceVisibility(ctx context.Context, visibility string, list []feeds.FeedSummary) error {
	seenAt := r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slugs := make([]string, 0, len(list))
		for i, s := range list {
			if s.Slug == "" {
				continue
			}
			slugs = append(slugs, s.Slug)

			row := toModel(s, visibility, i, seenAt)
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"upstream_id", "document_id", "title", "description", "cover",
					"public", "visibility", "position", "last_seen_at", "updated_at",
				}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("upserting summary %q: %w", s.Slug, err)
			}
		}

		stale := tx.Where("visibility = ?", visibility)
		if len(slugs) > 0 {
			stale = stale.Where("slug NOT IN ?", slugs)
		}
		if err := stale.Delete(&models.FeedSummary{}).Error; err != nil {
			return fmt.Errorf("removing stale summaries: %w", err)
		}
		return nil
	})
	if err != nil {
		return apperrors.DatabaseError("replace summaries", err).WithDetail("visibility", visibility)
	}
	return nil
}

// List returns the stored summaries of a visibility in list order
func (r *Repository) List(ctx context.Context, visibility string) ([]feeds.FeedSummary, error) {
	var rows []models.FeedSummary
	err := r.db.WithContext(ctx).
		Where("visibility = ?", visibility).
		Order("position ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.DatabaseError("list summaries", err)
	}

	out := make([]feeds.FeedSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

// GetBySlug returns the stored summary of a feed
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*feeds.FeedSummary, error) {
	var row models.FeedSummary
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSummaryNotFound
		}
		return nil, apperrors.DatabaseError("get summary", err).WithDetail("slug", slug)
	}

	s := fromModel(row)
	return &s, nil
}

// Count returns the number of stored summaries
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FeedSummary{}).Count(&count).Error; err != nil {
		return 0, apperrors.DatabaseError("count summaries", err)
	}
	return count, nil
}

func toModel(s feeds.FeedSummary, visibility string, position int, seenAt time.Time) models.FeedSummary {
	return models.FeedSummary{
		Slug:        s.Slug,
		UpstreamID:  s.ID,
		DocumentID:  s.DocumentID,
		Title:       s.Title,
		Description: s.Description,
		Cover:       s.Cover,
		Public:      s.Public,
		Visibility:  visibility,
		Position:    position,
		LastSeenAt:  seenAt,
	}
}

func fromModel(m models.FeedSummary) feeds.FeedSummary {
	return feeds.FeedSummary{
		ID:          m.UpstreamID,
		DocumentID:  m.DocumentID,
		Slug:        m.Slug,
		Title:       m.Title,
		Description: m.Description,
		Cover:       m.Cover,
		Public:      m.Public,
	}
}
