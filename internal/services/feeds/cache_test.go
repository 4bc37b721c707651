package feeds

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetSet(t *testing.T) {
	cache := NewCache(time.Minute, time.Hour)
	defer cache.Stop()

	_, ok := cache.Get("feed:a:public")
	assert.False(t, ok)

	cache.Set("feed:a:public", "<rss/>")
	doc, ok := cache.Get("feed:a:public")
	assert.True(t, ok)
	assert.Equal(t, "<rss/>", doc)
}

func TestCache_Expiry(t *testing.T) {
	cache := NewCache(time.Minute, time.Hour)
	defer cache.Stop()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set("k", "v")
	now = now.Add(30 * time.Second)
	_, ok := cache.Get("k")
	assert.True(t, ok)

	now = now.Add(31 * time.Second)
	_, ok = cache.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	cache.removeExpired()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_CleanupLoop(t *testing.T) {
	cache := NewCache(time.Millisecond, 5*time.Millisecond)
	defer cache.Stop()

	cache.Set("k", "v")
	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(time.Minute, time.Hour)
	defer cache.Stop()

	cache.Set("feed:a:public", "1")
	cache.Set("feed:a:abc", "2")
	cache.Set("feed:ab:public", "3")
	cache.Set("feed:b:public", "4")

	cache.Invalidate("feed:b:public")
	assert.Equal(t, 3, cache.Len())

	cache.InvalidatePattern("feed:a:*")
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("feed:ab:public")
	assert.True(t, ok)

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestCache_StopTwice(t *testing.T) {
	cache := NewCache(0, 0)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)
	cache.Stop()
	assert.NotPanics(t, cache.Stop)
}

func TestKeyGenerator(t *testing.T) {
	gen := NewKeyGenerator("")

	assert.Equal(t, "feed:show:public", gen.Document("show", ""))

	private := gen.Document("show", "s3cret")
	assert.True(t, strings.HasPrefix(private, "feed:show:"))
	assert.NotContains(t, private, "s3cret")
	assert.Len(t, strings.TrimPrefix(private, "feed:show:"), 40)
	assert.NotEqual(t, private, gen.Document("show", "other"))

	assert.True(t, matchPattern(gen.SlugPattern("show"), private))
	assert.False(t, matchPattern(gen.SlugPattern("show"), "feed:shows:public"))
	assert.True(t, matchPattern("*", "anything"))
	assert.True(t, matchPattern("exact", "exact"))
}

func TestKeyGenerator_SlugsWithSeparators(t *testing.T) {
	gen := NewKeyGenerator("")
	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	cache.Set(gen.Document("a", ""), "a public")
	cache.Set(gen.Document("a", "tok"), "a private")
	cache.Set(gen.Document("a:b", ""), "a:b public")
	cache.Set(gen.Document("a:b", "tok"), "a:b private")
	cache.Set(gen.Document("a*", ""), "a* public")

	assert.Equal(t, "feed:a%3Ab:public", gen.Document("a:b", ""))

	cache.InvalidatePattern(gen.SlugPattern("a"))

	_, ok := cache.Get(gen.Document("a", ""))
	assert.False(t, ok)
	_, ok = cache.Get(gen.Document("a", "tok"))
	assert.False(t, ok)

	doc, ok := cache.Get(gen.Document("a:b", ""))
	assert.True(t, ok)
	assert.Equal(t, "a:b public", doc)
	_, ok = cache.Get(gen.Document("a:b", "tok"))
	assert.True(t, ok)
	_, ok = cache.Get(gen.Document("a*", ""))
	assert.True(t, ok)
	assert.Equal(t, 3, cache.Len())
}
