package epub

import (
	"fmt"

	"github.com/yuanying/epubkit/internal/xmltree"
)

// parseNCX reads a legacy NCX document and returns the navMap tree.
func parseNCX(data []byte) ([]TocEntry, error) {
	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNcxDocument, err)
	}
	if !root.Is("ncx") {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrInvalidNcxDocument, root.Name())
	}

	points := root.First("navMap").All("navPoint")
	if len(points) == 0 {
		return nil, ErrInvalidNcxDocument
	}
	return navPointEntries(points), nil
}

// navPointEntries converts navPoints in document order, recursing into
// nested navPoints.
func navPointEntries(points []*xmltree.Node) []TocEntry {
	entries := make([]TocEntry, 0, len(points))
	for _, np := range points {
		entries = append(entries, TocEntry{
			Label:    collapseSpace(np.Path("navLabel", "text").Text()),
			Href:     np.First("content").AttrOr("src", ""),
			Children: navPointEntries(np.All("navPoint")),
		})
	}
	return entries
}
