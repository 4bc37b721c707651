package feeds

import "time"

const (
	// ReleasedAtLayout renders timestamps as UTC ISO-8601 with milliseconds.
	ReleasedAtLayout = "2006-01-02T15:04:05.000Z"

	// DefaultCacheTTL is how long a fetched feed document stays cached.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCleanupInterval is how often expired cache entries are swept.
	DefaultCleanupInterval = time.Minute
)

// FeedSummary is a partial feed record as returned by the content API's list
// endpoints. It serves as the base feed when normalizing a document.
type FeedSummary struct {
	ID          int64  `json:"id,omitempty"`
	DocumentID  string `json:"documentId,omitempty"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cover       string `json:"cover,omitempty"`
	Public      *bool  `json:"public,omitempty"`
}

// Feed is a normalized podcast feed.
type Feed struct {
	ID          int64     `json:"id,omitempty"`
	DocumentID  string    `json:"documentId,omitempty"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	Cover       string    `json:"cover"`
	Episodes    []Episode `json:"episodes"`
}

// Episode is a single normalized feed item.
type Episode struct {
	GUID            string `json:"guid"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"durationSeconds"`
	ReleasedAt      string `json:"releasedAt"`
	Cover           string `json:"cover"`
}

// EmptyFeed builds the placeholder used when a listed feed cannot be
// ingested: the summary's metadata with no episodes.
func EmptyFeed(base FeedSummary) *Feed {
	return &Feed{
		ID:          base.ID,
		DocumentID:  base.DocumentID,
		Slug:        base.Slug,
		Title:       base.Title,
		Description: base.Description,
		IsPublic:    base.Public != nil && *base.Public,
		Cover:       base.Cover,
		Episodes:    []Episode{},
	}
}

// FindEpisode returns the episode with the given GUID.
func (f *Feed) FindEpisode(guid string) (*Episode, bool) {
	for i := range f.Episodes {
		if f.Episodes[i].GUID == guid {
			return &f.Episodes[i], true
		}
	}
	return nil, false
}
