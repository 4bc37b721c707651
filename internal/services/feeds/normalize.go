package feeds

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"

	"github.com/killallgit/podhub/internal/metrics"
	"github.com/killallgit/podhub/pkg/xmltree"
)

// Episode field names as reported in EpisodeFieldError and metrics.
const (
	FieldGUID       = "guid"
	FieldTitle      = "title"
	FieldDuration   = "durationSeconds"
	FieldReleasedAt = "releasedAt"
	FieldCover      = "cover"
)

// Normalizer turns RSS documents into Feeds. It holds no state besides its
// clock and is safe for concurrent use.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer. now supplies the timestamp used for
// items without a usable publication date; nil means time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize parses doc with the default Normalizer.
func Normalize(doc string, base *FeedSummary) (*Feed, error) {
	return defaultNormalizer.Normalize(doc, base)
}

// Normalize parses an RSS document into a Feed. Feed level fields missing
// from the document are taken from base, which may be nil. Items never fail
// the feed: a field that cannot be read gets its default value.
func (n *Normalizer) Normalize(doc string, base *FeedSummary) (*Feed, error) {
	if base == nil {
		base = &FeedSummary{}
	}

	root, err := xmltree.Parse(doc)
	if err != nil {
		return nil, NewMalformedFeedError(base.Slug, detectType(doc), err.Error())
	}
	channel := root.Path("rss", "channel")
	if channel == nil {
		return nil, NewMalformedFeedError(base.Slug, detectType(doc), "no rss channel element")
	}

	feed := &Feed{
		ID:          base.ID,
		DocumentID:  base.DocumentID,
		Slug:        base.Slug,
		Title:       firstNonEmpty(lookupFirst(channel, text, "title"), base.Title),
		Description: firstNonEmpty(markupText(channel.Child("description")), base.Description),
		IsPublic:    firstBool(publicFlag(channel), base.Public),
		Cover: firstNonEmpty(
			channel.Path("image", "url").Text(),
			lookupFirst(channel, attr("href"), "itunes:image", "*:image"),
			scanImageHref(channelHead(channel)),
			base.Cover,
		),
	}

	items := channel.ChildrenNamed("item")
	feed.Episodes = make([]Episode, 0, len(items))
	for i, item := range items {
		feed.Episodes = append(feed.Episodes, n.episode(feed.Slug, i, item))
	}
	metrics.EpisodesNormalized.Add(float64(len(feed.Episodes)))

	log.WithFields(log.Fields{
		"slug":     feed.Slug,
		"episodes": len(feed.Episodes),
	}).Debug("Normalized feed")

	return feed, nil
}

func (n *Normalizer) episode(slug string, index int, item *xmltree.Node) Episode {
	ep := Episode{
		GUID:        lookupFirst(item, text, "guid"),
		Title:       lookupFirst(item, text, "title"),
		Description: markupText(item.Child("description")),
		Cover: firstNonEmpty(
			lookupFirst(item, attr("href"), "itunes:image", "*:image"),
			scanImageHref(item.Raw()),
			findImageHref(item),
		),
	}

	if ep.GUID == "" {
		ep.GUID = "episode-" + strconv.Itoa(index)
		fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldGUID})
	}
	if ep.Title == "" {
		ep.Title = "Episode " + strconv.Itoa(index+1)
		fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldTitle})
	}
	if ep.Cover == "" {
		fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldCover})
	}

	if raw := lookupFirst(item, text, "itunes:duration", "*:duration", "duration"); raw != "" {
		seconds, err := ParseDuration(raw)
		if err != nil {
			fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldDuration, Value: raw, Err: err})
		}
		ep.DurationSeconds = seconds
	} else {
		fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldDuration})
	}

	released := n.now()
	if raw := lookupFirst(item, text, "pubDate"); raw != "" {
		t, err := ParsePubDate(raw)
		if err != nil {
			fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldReleasedAt, Value: raw, Err: err})
		} else {
			released = t
		}
	} else {
		fieldDefaulted(slug, EpisodeFieldError{Index: index, Field: FieldReleasedAt})
	}
	ep.ReleasedAt = FormatReleasedAt(released)

	return ep
}

// fieldDefaulted records a field that fell back to its default. Only values
// that were present but unusable are logged.
func fieldDefaulted(slug string, fe EpisodeFieldError) {
	metrics.EpisodeFieldFallbacks.WithLabelValues(fe.Field).Inc()
	if fe.Err == nil {
		return
	}
	log.WithFields(log.Fields{
		"slug":  slug,
		"item":  fe.Index,
		"field": fe.Field,
	}).WithError(fe).Debug("Using default for episode field")
}

// publicFlag reads the channel's public marker. It returns nil when the
// document does not carry one.
func publicFlag(channel *xmltree.Node) *bool {
	if v, ok := channel.AttrValue("public"); ok {
		public := v == "true"
		return &public
	}
	if present(channel, "public", "*:public") {
		public := lookupFirst(channel, text, "public", "*:public") == "true"
		return &public
	}
	return nil
}

// markupText returns an element's text, or its inner markup when it holds
// unescaped child elements such as HTML in a description.
func markupText(n *xmltree.Node) string {
	if n == nil {
		return ""
	}
	if len(n.Children) > 0 {
		return n.Inner()
	}
	return n.Text()
}

func detectType(doc string) string {
	switch gofeed.DetectFeedType(strings.NewReader(doc)) {
	case gofeed.FeedTypeRSS:
		return "rss"
	case gofeed.FeedTypeAtom:
		return "atom"
	case gofeed.FeedTypeJSON:
		return "json"
	default:
		return "unknown"
	}
}
