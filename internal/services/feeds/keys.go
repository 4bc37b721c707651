package feeds

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
)

// DefaultKeyGenerator implements CacheKeyGenerator with a consistent key format
type DefaultKeyGenerator struct {
	prefix string
}

// NewKeyGenerator creates a new key generator with an optional prefix
func NewKeyGenerator(prefix string) CacheKeyGenerator {
	if prefix == "" {
		prefix = "feed"
	}
	return &DefaultKeyGenerator{prefix: prefix}
}

// Document generates the key of a feed document. Tokens are hashed so they
// never appear in keys or logs. The slug is query-escaped so a ":" or "*"
// in it cannot reach into another slug's keys.
func (g *DefaultKeyGenerator) Document(slug, token string) string {
	return fmt.Sprintf("%s:%s:%s", g.prefix, url.QueryEscape(slug), tokenHash(token))
}

// SlugPattern matches every cached document of a slug regardless of token
func (g *DefaultKeyGenerator) SlugPattern(slug string) string {
	return fmt.Sprintf("%s:%s:*", g.prefix, url.QueryEscape(slug))
}

func tokenHash(token string) string {
	if token == "" {
		return "public"
	}
	sum := sha1.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}
