package feeds

import (
	"html"
	"regexp"
	"strings"

	"github.com/killallgit/podhub/pkg/xmltree"
)

// Candidate key forms accepted by lookupFirst:
//
//	"itunes:image"  exact qualified name
//	"*:image"       local name "image" under any prefix, or none
//	"image"         unprefixed element only
const wildcardPrefix = "*:"

var (
	itunesImageTag = regexp.MustCompile(`(?is)<itunes:image\b[^>]*?\shref\s*=\s*["']([^"']+)["']`)
	itemStartTag   = regexp.MustCompile(`<item[\s/>]`)

	// character data and comments are text, not markup
	nonMarkup = regexp.MustCompile(`(?s)<!\[CDATA\[.*?\]\]>|<!--.*?-->`)
)

type extractor func(*xmltree.Node) string

func text(n *xmltree.Node) string {
	return n.Text()
}

func attr(name string) extractor {
	return func(n *xmltree.Node) string {
		v, _ := n.AttrValue(name)
		return v
	}
}

// lookupFirst tries each candidate key against the direct children of node
// and returns the first non-empty value produced by extract.
func lookupFirst(node *xmltree.Node, extract extractor, candidates ...string) string {
	if node == nil {
		return ""
	}
	for _, key := range candidates {
		for _, child := range node.Children {
			if !matches(child, key) {
				continue
			}
			if v := extract(child); v != "" {
				return v
			}
		}
	}
	return ""
}

// present reports whether any candidate names a direct child of node.
func present(node *xmltree.Node, candidates ...string) bool {
	if node == nil {
		return false
	}
	for _, key := range candidates {
		for _, child := range node.Children {
			if matches(child, key) {
				return true
			}
		}
	}
	return false
}

func matches(n *xmltree.Node, key string) bool {
	if local, ok := strings.CutPrefix(key, wildcardPrefix); ok {
		return n.Local() == local
	}
	return n.Name == key
}

// scanImageHref finds an itunes:image href in serialized markup.
func scanImageHref(markup string) string {
	m := itunesImageTag.FindStringSubmatch(nonMarkup.ReplaceAllString(markup, ""))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(m[1]))
}

// findImageHref returns the href of the first descendant whose tag name
// contains "image".
func findImageHref(node *xmltree.Node) string {
	found := node.Find(func(n *xmltree.Node) bool {
		if !strings.Contains(strings.ToLower(n.Name), "image") {
			return false
		}
		href, ok := n.AttrValue("href")
		return ok && href != ""
	})
	if found == nil {
		return ""
	}
	href, _ := found.AttrValue("href")
	return href
}

// channelHead is the channel markup up to its first item.
func channelHead(channel *xmltree.Node) string {
	raw := channel.Raw()
	if loc := itemStartTag.FindStringIndex(raw); loc != nil {
		return raw[:loc[0]]
	}
	return raw
}
