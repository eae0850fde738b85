// Package xmltree exposes XML documents as a generic attributed tree.
//
// Repeatable children are always returned as slices (All), so a singleton
// element and a list of one look the same to callers. Attribute and text
// values are returned as strings exactly as they appear in the document;
// no numeric coercion is performed.
package xmltree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Node is one element of a parsed document.
type Node struct {
	el *etree.Element
}

// Parse reads an XML document and returns its root element.
func Parse(data []byte) (*Node, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("xmltree: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("xmltree: document has no root element")
	}
	return &Node{el: root}, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*Node, error) {
	return Parse([]byte(s))
}

// Name returns the local element name without any namespace prefix.
func (n *Node) Name() string {
	return n.el.Tag
}

// Is reports whether n matches name. A prefixed name ("dc:title") must
// match prefix and local name; a bare name matches the local name only.
func (n *Node) Is(name string) bool {
	if n == nil {
		return false
	}
	if space, local, ok := strings.Cut(name, ":"); ok {
		return n.el.Space == space && n.el.Tag == local
	}
	return n.el.Tag == name
}

// All returns the direct children matching name in document order. The
// result is never nil-vs-singleton ambiguous: zero, one or many matches
// all come back as a slice.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.el.ChildElements() {
		c := &Node{el: child}
		if c.Is(name) {
			out = append(out, c)
		}
	}
	return out
}

// Children returns every direct child element in document order.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	kids := n.el.ChildElements()
	out := make([]*Node, 0, len(kids))
	for _, child := range kids {
		out = append(out, &Node{el: child})
	}
	return out
}

// Find returns every descendant of n matching name, in document order.
// n itself is not included.
func (n *Node) Find(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children() {
		if c.Is(name) {
			out = append(out, c)
		}
		out = append(out, c.Find(name)...)
	}
	return out
}

// First returns the first direct child matching name, or nil.
func (n *Node) First(name string) *Node {
	if all := n.All(name); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Path follows First through each name in turn. It returns nil as soon as
// a step is missing.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.First(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Attr returns the value of the named attribute. Prefixed names such as
// "epub:type" match the attribute's namespace prefix.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	a := n.el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// AttrOr returns the named attribute or def when absent.
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Text returns the concatenated character data of n and its descendants,
// trimmed of surrounding whitespace.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	collectText(&sb, n.el)
	return strings.TrimSpace(sb.String())
}

func collectText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			collectText(sb, t)
		}
	}
}
