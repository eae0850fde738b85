package epub

import "slices"

// Book is the complete result of a parse.
type Book struct {
	Metadata Metadata       `json:"metadata"`
	Manifest []ManifestItem `json:"manifest"`
	Spine    []SpineItem    `json:"spine"`
	TOC      []TocEntry     `json:"toc"`
	Chapters []Chapter      `json:"chapters"`
}

// Metadata represents the metadata section of the package document.
// Optional fields are nil when the element is absent.
type Metadata struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Language    string   `json:"language"`
	Publisher   *string  `json:"publisher,omitempty"`
	Description *string  `json:"description,omitempty"`
	Rights      *string  `json:"rights,omitempty"`
	Identifiers []string `json:"identifiers"`
	Date        *string  `json:"date,omitempty"`
}

// ManifestItem represents an item in the manifest. Href is relative to
// the package document directory.
type ManifestItem struct {
	ID         string   `json:"id"`
	Href       string   `json:"href"`
	MediaType  string   `json:"mediaType"`
	Properties []string `json:"properties,omitempty"`
}

// HasProperty reports whether prop is one of the item's properties.
func (m ManifestItem) HasProperty(prop string) bool {
	return slices.Contains(m.Properties, prop)
}

// SpineItem represents an item reference in the spine
type SpineItem struct {
	IDRef  string `json:"idref"`
	Linear bool   `json:"linear"`
}

// TocEntry is one node of the table of contents. Children is never nil.
type TocEntry struct {
	Label    string     `json:"label"`
	Href     string     `json:"href"`
	Children []TocEntry `json:"children"`
}

// Chapter pairs a spine position with its content and TOC label.
type Chapter struct {
	ID      string `json:"id"`
	Href    string `json:"href"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
