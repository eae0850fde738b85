package epub

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuanying/epubkit/internal/archive"
	"github.com/yuanying/epubkit/internal/xmltree"
)

// packageDocument is a parsed OPF file and the archive path it was read from.
type packageDocument struct {
	path string
	root *xmltree.Node
}

// loadPackage locates the package document through the container
// descriptor and parses it.
func loadPackage(a *archive.Archive) (*packageDocument, error) {
	opfPath, err := containerPath(a)
	if err != nil {
		return nil, err
	}

	data, err := a.Bytes(opfPath)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMissingPackageDocument, opfPath)
		}
		return nil, err
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingPackageDocument, opfPath, err)
	}

	return &packageDocument{path: opfPath, root: root}, nil
}

// section returns a direct child of <package>, or nil when the root is
// not a package element or the section is absent.
func (p *packageDocument) section(name string) *xmltree.Node {
	if !p.root.Is("package") {
		return nil
	}
	return p.root.First(name)
}

// metadata extracts Dublin Core fields. Single-valued fields take the
// first occurrence; identifiers keep every occurrence.
func (p *packageDocument) metadata() (Metadata, error) {
	md := p.section("metadata")
	if md == nil {
		return Metadata{}, ErrMissingMetadata
	}

	return Metadata{
		Title:       firstValue(md, "title"),
		Author:      firstValue(md, "creator"),
		Language:    firstValue(md, "language"),
		Publisher:   optionalValue(md, "publisher"),
		Description: optionalValue(md, "description"),
		Rights:      optionalValue(md, "rights"),
		Identifiers: values(md, "identifier"),
		Date:        optionalValue(md, "date"),
	}, nil
}

// values returns the text of every child named name, in order.
func values(n *xmltree.Node, name string) []string {
	nodes := n.All(name)
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Text())
	}
	return out
}

func firstValue(n *xmltree.Node, name string) string {
	if v := optionalValue(n, name); v != nil {
		return *v
	}
	return ""
}

// optionalValue treats an empty first element like a missing one.
func optionalValue(n *xmltree.Node, name string) *string {
	vals := values(n, name)
	if len(vals) == 0 || vals[0] == "" {
		return nil
	}
	return &vals[0]
}

// manifest extracts the items in document order. A repeated id keeps its
// first item only.
func (p *packageDocument) manifest() ([]ManifestItem, error) {
	nodes := p.section("manifest").All("item")
	if len(nodes) == 0 {
		return nil, ErrMissingManifest
	}

	seen := make(map[string]bool, len(nodes))
	items := make([]ManifestItem, 0, len(nodes))
	for _, n := range nodes {
		id := n.AttrOr("id", "")
		if seen[id] {
			continue
		}
		seen[id] = true

		item := ManifestItem{
			ID:        id,
			Href:      n.AttrOr("href", ""),
			MediaType: n.AttrOr("media-type", ""),
		}
		// Parse properties (space-separated)
		if props := strings.Fields(n.AttrOr("properties", "")); len(props) > 0 {
			item.Properties = props
		}
		items = append(items, item)
	}
	return items, nil
}

// spine extracts itemrefs in reading order. Only linear="no" marks an
// item non-linear.
func (p *packageDocument) spine() ([]SpineItem, error) {
	nodes := p.section("spine").All("itemref")
	if len(nodes) == 0 {
		return nil, ErrMissingSpine
	}

	items := make([]SpineItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, SpineItem{
			IDRef:  n.AttrOr("idref", ""),
			Linear: n.AttrOr("linear", "") != "no",
		})
	}
	return items, nil
}

// coverID returns the manifest id named by <meta name="cover">.
func (p *packageDocument) coverID() string {
	for _, m := range p.section("metadata").All("meta") {
		if m.AttrOr("name", "") == "cover" {
			if id := m.AttrOr("content", ""); id != "" {
				return id
			}
		}
	}
	return ""
}

// guideReference is a <guide><reference> entry.
type guideReference struct {
	Type string
	Href string
}

func (p *packageDocument) guide() []guideReference {
	var refs []guideReference
	for _, r := range p.section("guide").All("reference") {
		refs = append(refs, guideReference{
			Type: r.AttrOr("type", ""),
			Href: r.AttrOr("href", ""),
		})
	}
	return refs
}
