package epub

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/yuanying/epubkit/internal/archive"
)

// CoverInfo holds information about the detected cover image.
type CoverInfo struct {
	ManifestID      string
	Href            string
	Path            string // archive path, resolved against the package document
	MediaType       string
	DetectionMethod string // "properties", "meta", "guide", "filename"
}

// Cover detects the cover image. Methods are tried in priority order:
//  1. properties="cover-image" (EPUB 3.0)
//  2. meta name="cover" (EPUB 2.0)
//  3. guide type="cover" (matched to image manifest items)
//  4. filename pattern (basename contains "cover", case-insensitive, SVG excluded)
func (d *Document) Cover() (CoverInfo, error) {
	pkg, err := loadPackage(d.archive)
	if err != nil {
		return CoverInfo{}, err
	}
	manifest, err := pkg.manifest()
	if err != nil {
		return CoverInfo{}, err
	}

	info, ok := detectCover(manifest, pkg.coverID(), pkg.guide())
	if !ok {
		return CoverInfo{}, ErrNoCover
	}
	info.Path = ResolvePath(pkg.path, info.Href)
	return info, nil
}

// CoverImage detects the cover and reads its bytes.
func (d *Document) CoverImage() (CoverInfo, []byte, error) {
	info, err := d.Cover()
	if err != nil {
		return CoverInfo{}, nil, err
	}
	data, err := d.archive.Bytes(info.Path)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return CoverInfo{}, nil, fmt.Errorf("%w: %s listed in manifest but absent", ErrNoCover, info.Path)
		}
		return CoverInfo{}, nil, err
	}
	return info, data, nil
}

func detectCover(manifest []ManifestItem, coverID string, guide []guideReference) (CoverInfo, bool) {
	found := func(item ManifestItem, method string) (CoverInfo, bool) {
		return CoverInfo{
			ManifestID:      item.ID,
			Href:            item.Href,
			MediaType:       item.MediaType,
			DetectionMethod: method,
		}, true
	}

	for _, item := range manifest {
		if item.HasProperty("cover-image") {
			return found(item, "properties")
		}
	}

	if coverID != "" {
		for _, item := range manifest {
			if item.ID == coverID {
				return found(item, "meta")
			}
		}
	}

	for _, ref := range guide {
		if ref.Type != "cover" {
			continue
		}
		guideHref, _ := splitFragment(ref.Href)
		for _, item := range manifest {
			if isImageMediaType(item.MediaType) && item.Href == guideHref {
				return found(item, "guide")
			}
		}
		// guide points at a non-image page; fall through to the filename heuristic
	}

	for _, item := range manifest {
		if !isImageMediaType(item.MediaType) {
			continue
		}
		if strings.Contains(strings.ToLower(path.Base(item.Href)), "cover") {
			return found(item, "filename")
		}
	}

	return CoverInfo{}, false
}

// isImageMediaType checks if a media type is a raster image (SVG excluded).
func isImageMediaType(mediaType string) bool {
	if mediaType == "image/svg+xml" {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
