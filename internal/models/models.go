package models

import "time"

// Visibility of a stored feed summary
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// FeedSummary is the last known list record of a feed, kept so feeds can
// still be listed and normalized against a base when the content API's
// list endpoint is down.
type FeedSummary struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	UpstreamID  int64     `json:"upstream_id"`
	DocumentID  string    `json:"document_id"`
	Title       string    `json:"title"`
	Description string    `json:"description" gorm:"type:text"`
	Cover       string    `json:"cover"`
	Public      *bool     `json:"public"`
	Visibility  string    `json:"visibility" gorm:"index;not null;default:public"`
	Position    int       `json:"position"`
	LastSeenAt  time.Time `json:"last_seen_at" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the table name stable if the type is renamed
func (FeedSummary) TableName() string {
	return "feed_summaries"
}

// All returns every model managed by migrations
func All() []any {
	return []any{&FeedSummary{}}
}
