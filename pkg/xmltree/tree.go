package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// DocumentName is the name of the synthetic node returned by Parse that
// holds the document's top-level elements.
const DocumentName = "#document"

// ErrEmptyDocument is returned when the input contains no elements at all
var ErrEmptyDocument = errors.New("document contains no elements")

// Node is a single element of a parsed XML document.
//
// Names are kept exactly as written in the source, including any namespace
// prefix ("itunes:image"). Attributes live in Attr and never collide with
// child elements of the same name.
type Node struct {
	Name     string
	Attr     map[string]string
	Children []*Node

	text bytes.Buffer
	raw  string
}

var encodingDecl = regexp.MustCompile(`^\s*<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._-]+)["']`)

// Parse reads an XML document into a tree.
//
// The parser is lenient: unknown entities are kept literally, mismatched end
// tags close the nearest matching open element, and a document truncated
// mid-way still yields the elements read so far. Namespace prefixes are not
// resolved.
func Parse(doc string) (*Node, error) {
	doc = toUTF8(strings.TrimPrefix(doc, "\ufeff"))

	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		// toUTF8 already converted the input
		return input, nil
	}

	root := &Node{Name: DocumentName}
	stack := []*Node{root}
	starts := []int64{0}

	for {
		offset := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(root.Children) == 0 {
				return nil, fmt.Errorf("parsing xml: %w", err)
			}
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: qualified(t.Name), Attr: attributes(t.Attr)}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
			stack = append(stack, n)
			starts = append(starts, offset)
		case xml.EndElement:
			name := qualified(t.Name)
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Name != name {
					continue
				}
				end := dec.InputOffset()
				for j := len(stack) - 1; j >= i; j-- {
					stack[j].raw = slice(doc, starts[j], end)
				}
				stack = stack[:i]
				starts = starts[:i]
				break
			}
		case xml.CharData:
			stack[len(stack)-1].text.Write(t)
		}
	}

	// Unclosed elements run to the end of the input
	for j := len(stack) - 1; j > 0; j-- {
		stack[j].raw = slice(doc, starts[j], int64(len(doc)))
	}

	if len(root.Children) == 0 {
		return nil, ErrEmptyDocument
	}
	root.raw = doc
	return root, nil
}

// Text returns the element's own character data with surrounding whitespace
// removed. Text of child elements is not included.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.text.String())
}

// Raw returns the element's markup as it appeared in the source document.
func (n *Node) Raw() string {
	if n == nil {
		return ""
	}
	return n.raw
}

// Inner returns the markup between the element's start and end tags. For a
// self-closing element it is empty.
func (n *Node) Inner() string {
	raw := n.Raw()
	if strings.HasSuffix(raw, "/>") && len(n.Children) == 0 && n.text.Len() == 0 {
		return ""
	}
	open := strings.IndexByte(raw, '>')
	closing := strings.LastIndex(raw, "</")
	if open < 0 || closing <= open {
		return strings.TrimSpace(n.text.String())
	}
	return strings.TrimSpace(raw[open+1 : closing])
}

// Local returns the element name without its namespace prefix.
func (n *Node) Local() string {
	_, local := Split(n.Name)
	return local
}

// Prefix returns the namespace prefix of the element name, if any.
func (n *Node) Prefix() string {
	prefix, _ := Split(n.Name)
	return prefix
}

// AttrValue returns the trimmed value of the named attribute.
func (n *Node) AttrValue(name string) (string, bool) {
	if n == nil || n.Attr == nil {
		return "", false
	}
	v, ok := n.Attr[name]
	return strings.TrimSpace(v), ok
}

// Child returns the first direct child with the given qualified name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given qualified name, in
// document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path walks direct children by name, e.g. Path("rss", "channel").
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Find returns the first descendant (depth-first, document order) for which
// match returns true. The node itself is not considered.
func (n *Node) Find(match func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if match(c) {
			return c
		}
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// Split separates a qualified name into prefix and local part.
func Split(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func attributes(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		key := qualified(a.Name)
		if _, exists := out[key]; !exists {
			out[key] = a.Value
		}
	}
	return out
}

func slice(doc string, start, end int64) string {
	if start < 0 {
		start = 0
	}
	if end > int64(len(doc)) {
		end = int64(len(doc))
	}
	if start >= end {
		return ""
	}
	return doc[start:end]
}

// toUTF8 converts documents that declare a non UTF-8 encoding so that byte
// offsets reported by the decoder line up with the returned string.
func toUTF8(doc string) string {
	head := doc
	if len(head) > 256 {
		head = head[:256]
	}
	m := encodingDecl.FindStringSubmatch(head)
	if m == nil {
		return doc
	}
	label := strings.ToLower(m[1])
	if label == "utf-8" || label == "utf8" {
		return doc
	}
	r, err := charset.NewReaderLabel(label, strings.NewReader(doc))
	if err != nil {
		return doc
	}
	converted, err := io.ReadAll(r)
	if err != nil {
		return doc
	}
	return string(converted)
}
