package epub

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/yuanying/epubkit/internal/archive"
	"github.com/yuanying/epubkit/internal/xmltree"
)

// containerEntry is the fixed location of the container descriptor.
const containerEntry = "META-INF/container.xml"

// Document is a loaded EPUB archive. Every accessor recomputes its result
// from the archive; nothing is cached between calls.
type Document struct {
	archive     *archive.Archive
	concurrency int
}

type options struct {
	concurrency  int
	maxEntrySize int64
}

// Option configures Load and LoadFile.
type Option func(*options)

// WithConcurrency bounds the number of chapters fetched in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxEntrySize caps the decompressed size of any single archive entry.
func WithMaxEntrySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntrySize = n
		}
	}
}

// Load opens an in-memory EPUB archive.
func Load(data []byte, opts ...Option) (*Document, error) {
	o := options{
		concurrency:  runtime.GOMAXPROCS(0),
		maxEntrySize: archive.DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a, err := archive.Open(data, archive.WithMaxEntrySize(o.maxEntrySize))
	if err != nil {
		return nil, err
	}
	return &Document{archive: a, concurrency: o.concurrency}, nil
}

// LoadFile reads the EPUB at path and loads it.
func LoadFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	return Load(data, opts...)
}

// Entries lists the archive entries in archive order.
func (d *Document) Entries() []archive.Entry {
	return d.archive.Entries()
}

// ContainerPath returns the package document path named by the container descriptor.
func (d *Document) ContainerPath() (string, error) {
	return containerPath(d.archive)
}

// Metadata extracts the package metadata.
func (d *Document) Metadata() (Metadata, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return Metadata{}, err
	}
	return pkg.metadata()
}

// Manifest extracts the manifest items in document order.
func (d *Document) Manifest() ([]ManifestItem, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return nil, err
	}
	return pkg.manifest()
}

// Spine extracts the reading order.
func (d *Document) Spine() ([]SpineItem, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return nil, err
	}
	return pkg.spine()
}

// TOC resolves the table of contents from the nav document or NCX.
func (d *Document) TOC() ([]TocEntry, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return nil, err
	}
	manifest, err := pkg.manifest()
	if err != nil {
		return nil, err
	}
	return resolveTOC(d.archive, pkg.path, manifest)
}

// Chapters assembles the chapters in spine order.
func (d *Document) Chapters() ([]Chapter, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return nil, err
	}
	spine, err := pkg.spine()
	if err != nil {
		return nil, err
	}
	manifest, err := pkg.manifest()
	if err != nil {
		return nil, err
	}
	toc, err := resolveTOC(d.archive, pkg.path, manifest)
	if err != nil {
		return nil, err
	}
	return assembleChapters(d.archive, pkg.path, spine, manifest, toc, d.concurrency)
}

// Parse runs every step in dependency order. Either a complete Book is
// returned or the first failure, unchanged.
func (d *Document) Parse() (*Book, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return nil, err
	}

	metadata, err := pkg.metadata()
	if err != nil {
		return nil, err
	}
	manifest, err := pkg.manifest()
	if err != nil {
		return nil, err
	}
	spine, err := pkg.spine()
	if err != nil {
		return nil, err
	}
	toc, err := resolveTOC(d.archive, pkg.path, manifest)
	if err != nil {
		return nil, err
	}
	chapters, err := assembleChapters(d.archive, pkg.path, spine, manifest, toc, d.concurrency)
	if err != nil {
		return nil, err
	}

	return &Book{
		Metadata: metadata,
		Manifest: manifest,
		Spine:    spine,
		TOC:      toc,
		Chapters: chapters,
	}, nil
}

// containerPath reads the container descriptor and returns the first
// rootfile full-path.
func containerPath(a *archive.Archive) (string, error) {
	data, err := a.Bytes(containerEntry)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return "", fmt.Errorf("%w: %s is missing", ErrMalformedContainer, containerEntry)
		}
		return "", err
	}

	root, err := xmltree.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedContainer, err)
	}

	rootfile := root.Path("rootfiles", "rootfile")
	if !root.Is("container") || rootfile == nil {
		return "", fmt.Errorf("%w: no rootfile element", ErrMalformedContainer)
	}

	fullPath := strings.TrimSpace(rootfile.AttrOr("full-path", ""))
	if fullPath == "" {
		return "", fmt.Errorf("%w: rootfile has no full-path", ErrMalformedContainer)
	}
	return fullPath, nil
}
