package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
  <channel>
    <title>My Show</title>
    <itunes:image href="https://example.com/cover.jpg"/>
    <image>
      <url>https://example.com/rss.jpg</url>
      <href>child-element</href>
    </image>
    <item>
      <guid isPermaLink="false">abc-123</guid>
      <title><![CDATA[First & best]]></title>
    </item>
  </channel>
</rss>`

	root, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, DocumentName, root.Name)

	channel := root.Path("rss", "channel")
	require.NotNil(t, channel)

	t.Run("prefix kept on element names", func(t *testing.T) {
		img := channel.Child("itunes:image")
		require.NotNil(t, img)
		assert.Equal(t, "itunes", img.Prefix())
		assert.Equal(t, "image", img.Local())

		href, ok := img.AttrValue("href")
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/cover.jpg", href)
	})

	t.Run("attributes do not collide with child elements", func(t *testing.T) {
		img := channel.Child("image")
		require.NotNil(t, img)

		_, ok := img.AttrValue("href")
		assert.False(t, ok)
		assert.Equal(t, "child-element", img.Child("href").Text())
		assert.Equal(t, "https://example.com/rss.jpg", img.Path("url").Text())
	})

	t.Run("cdata and attributes on text elements", func(t *testing.T) {
		item := channel.Child("item")
		require.NotNil(t, item)

		guid := item.Child("guid")
		assert.Equal(t, "abc-123", guid.Text())
		perma, _ := guid.AttrValue("isPermaLink")
		assert.Equal(t, "false", perma)
		assert.Equal(t, "First & best", item.Child("title").Text())
	})

	t.Run("raw markup is preserved", func(t *testing.T) {
		img := channel.Child("itunes:image")
		assert.Equal(t, `<itunes:image href="https://example.com/cover.jpg"/>`, img.Raw())

		item := channel.Child("item")
		assert.Contains(t, item.Raw(), `<guid isPermaLink="false">abc-123</guid>`)
		assert.True(t, len(item.Raw()) > 0 && item.Raw()[0] == '<')
	})

	t.Run("xmlns declarations are plain attributes", func(t *testing.T) {
		rss := root.Child("rss")
		ns, ok := rss.AttrValue("xmlns:itunes")
		assert.True(t, ok)
		assert.Equal(t, "http://www.itunes.com/dtds/podcast-1.0.dtd", ns)
	})
}

func TestParse_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, root *Node)
	}{
		{
			name: "undeclared namespace prefix",
			doc:  `<rss><channel><itunes:duration>60</itunes:duration></channel></rss>`,
			check: func(t *testing.T, root *Node) {
				assert.Equal(t, "60", root.Path("rss", "channel", "itunes:duration").Text())
			},
		},
		{
			name: "html entities",
			doc:  `<rss><channel><title>Caf&eacute; &amp; Bar&nbsp;</title></channel></rss>`,
			check: func(t *testing.T, root *Node) {
				assert.Equal(t, "Café & Bar", root.Path("rss", "channel", "title").Text())
			},
		},
		{
			name: "truncated document keeps parsed elements",
			doc:  `<rss><channel><title>T</title><item><title>Ep`,
			check: func(t *testing.T, root *Node) {
				channel := root.Path("rss", "channel")
				require.NotNil(t, channel)
				assert.Equal(t, "T", channel.Child("title").Text())
				assert.Len(t, channel.ChildrenNamed("item"), 1)
			},
		},
		{
			name: "stray end tag is ignored",
			doc:  `<rss><channel></p><title>T</title></channel></rss>`,
			check: func(t *testing.T, root *Node) {
				assert.Equal(t, "T", root.Path("rss", "channel", "title").Text())
			},
		},
		{
			name: "byte order mark",
			doc:  "\ufeff<rss><channel><title>T</title></channel></rss>",
			check: func(t *testing.T, root *Node) {
				assert.Equal(t, "T", root.Path("rss", "channel", "title").Text())
			},
		},
		{
			name: "latin-1 declared encoding",
			doc:  "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><rss><channel><title>Caf\xe9</title></channel></rss>",
			check: func(t *testing.T, root *Node) {
				assert.Equal(t, "Café", root.Path("rss", "channel", "title").Text())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.doc)
			require.NoError(t, err)
			tt.check(t, root)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = Parse("just some text")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestNode_Inner(t *testing.T) {
	root, err := Parse(`<item><description><p>Hello <b>world</b></p></description><empty/></item>`)
	require.NoError(t, err)

	item := root.Child("item")
	assert.Equal(t, "<p>Hello <b>world</b></p>", item.Child("description").Inner())
	assert.Equal(t, "", item.Child("empty").Inner())
}

func TestNode_Find(t *testing.T) {
	root, err := Parse(`<item><media:content url="a"><media:thumbnail href="b"/></media:content></item>`)
	require.NoError(t, err)

	found := root.Child("item").Find(func(n *Node) bool {
		_, ok := n.AttrValue("href")
		return ok
	})
	require.NotNil(t, found)
	assert.Equal(t, "media:thumbnail", found.Name)

	var nilNode *Node
	assert.Nil(t, nilNode.Find(func(*Node) bool { return true }))
	assert.Equal(t, "", nilNode.Text())
}

func TestSplit(t *testing.T) {
	prefix, local := Split("itunes:image")
	assert.Equal(t, "itunes", prefix)
	assert.Equal(t, "image", local)

	prefix, local = Split("image")
	assert.Equal(t, "", prefix)
	assert.Equal(t, "image", local)
}
