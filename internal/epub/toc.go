package epub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuanying/epubkit/internal/archive"
)

const ncxMediaType = "application/x-dtbncx+xml"

// tocStrategy names the source a table of contents is read from.
type tocStrategy int

const (
	tocNone tocStrategy = iota
	tocNav
	tocNCX
)

func (s tocStrategy) String() string {
	switch s {
	case tocNav:
		return "nav"
	case tocNCX:
		return "ncx"
	default:
		return "none"
	}
}

// tocSource is the manifest item a strategy reads from.
type tocSource struct {
	strategy tocStrategy
	item     ManifestItem
}

// classifyTOC picks the table of contents source. A nav-flagged item wins
// over an NCX item regardless of manifest order.
func classifyTOC(manifest []ManifestItem) tocSource {
	for _, item := range manifest {
		if item.HasProperty("nav") {
			return tocSource{strategy: tocNav, item: item}
		}
	}
	for _, item := range manifest {
		if item.MediaType == ncxMediaType {
			return tocSource{strategy: tocNCX, item: item}
		}
	}
	return tocSource{strategy: tocNone}
}

// resolveTOC reads and parses the table of contents chosen by classifyTOC.
func resolveTOC(a *archive.Archive, packagePath string, manifest []ManifestItem) ([]TocEntry, error) {
	src := classifyTOC(manifest)
	switch src.strategy {
	case tocNav:
		data, err := readTOCDocument(a, ResolvePath(packagePath, src.item.Href), ErrMissingNav)
		if err != nil {
			return nil, err
		}
		return parseNavDocument(data)
	case tocNCX:
		data, err := readTOCDocument(a, ResolvePath(packagePath, src.item.Href), ErrMissingNcx)
		if err != nil {
			return nil, err
		}
		return parseNCX(data)
	default:
		return nil, ErrNoTableOfContents
	}
}

func readTOCDocument(a *archive.Archive, path string, missing error) ([]byte, error) {
	data, err := a.Bytes(path)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", missing, path)
		}
		return nil, err
	}
	return data, nil
}

// findTocEntry walks the tree in pre-order and returns the first entry
// whose href, minus any fragment, ends with href.
func findTocEntry(entries []TocEntry, href string) (TocEntry, bool) {
	for _, e := range entries {
		if hrefMatches(e.Href, href) {
			return e, true
		}
		if found, ok := findTocEntry(e.Children, href); ok {
			return found, true
		}
	}
	return TocEntry{}, false
}

// hrefMatches compares by trailing suffix, so "a/ch1.xhtml" and
// "b/ch1.xhtml" both match "ch1.xhtml". The first pre-order match wins.
func hrefMatches(tocHref, manifestHref string) bool {
	if manifestHref == "" {
		return false
	}
	p, _ := splitFragment(tocHref)
	return strings.HasSuffix(p, manifestHref)
}
