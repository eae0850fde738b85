package epub

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yuanying/epubkit/internal/xmltree"
)

// parseNavDocument reads an EPUB 3 navigation document and returns the
// tree under the first <nav> whose epub:type includes "toc".
func parseNavDocument(data []byte) ([]TocEntry, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNavDocument, err)
	}

	var tocNav *xmltree.Node
	for _, n := range root.Find("nav") {
		if slices.Contains(strings.Fields(n.AttrOr("epub:type", "")), "toc") {
			tocNav = n
			break
		}
	}
	if tocNav == nil {
		return nil, fmt.Errorf("%w: no nav with epub:type toc", ErrInvalidNavDocument)
	}

	ol := tocNav.First("ol")
	if len(ol.All("li")) == 0 {
		return nil, fmt.Errorf("%w: toc nav has no ordered list", ErrInvalidNavDocument)
	}

	return navEntries(ol), nil
}

// navEntries converts the <li> children of an <ol>, recursing into any
// nested <ol>.
func navEntries(ol *xmltree.Node) []TocEntry {
	lis := ol.All("li")
	entries := make([]TocEntry, 0, len(lis))
	for _, li := range lis {
		entry := TocEntry{Children: []TocEntry{}}

		if a := li.First("a"); a != nil {
			entry.Label = collapseSpace(a.Text())
			entry.Href = a.AttrOr("href", "")
		} else if span := li.First("span"); span != nil {
			// heading-only entries carry a span and no link
			entry.Label = collapseSpace(span.Text())
		}

		if nested := li.First("ol"); nested != nil {
			entry.Children = navEntries(nested)
		}
		entries = append(entries, entry)
	}
	return entries
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
