package epub

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yuanying/epubkit/internal/archive"
)

// textReader reads archive entries as text. *archive.Archive satisfies it.
type textReader interface {
	Text(name string) (string, error)
}

// assembleChapters joins spine, manifest and TOC into one chapter per
// spine item. Content reads run concurrently, bounded by limit, but each
// result lands in the slot of its spine position, so output order always
// equals spine order. On failure the error of the earliest spine position
// is returned.
func assembleChapters(a textReader, packagePath string, spine []SpineItem, manifest []ManifestItem, toc []TocEntry, limit int) ([]Chapter, error) {
	byID := make(map[string]ManifestItem, len(manifest))
	for _, item := range manifest {
		if _, ok := byID[item.ID]; !ok {
			byID[item.ID] = item
		}
	}

	items := make([]ManifestItem, len(spine))
	for i, ref := range spine {
		item, ok := byID[ref.IDRef]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDanglingSpineReference, ref.IDRef)
		}
		items[i] = item
	}

	chapters := make([]Chapter, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			ch, err := loadChapter(a, packagePath, item, toc)
			if err != nil {
				errs[i] = err
				return err
			}
			chapters[i] = ch
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}
		return nil, err
	}
	return chapters, nil
}

func loadChapter(a textReader, packagePath string, item ManifestItem, toc []TocEntry) (Chapter, error) {
	var title string
	if entry, ok := findTocEntry(toc, item.Href); ok {
		title = entry.Label
	}

	chapterPath := ResolvePath(packagePath, item.Href)
	content, err := a.Text(chapterPath)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			return Chapter{}, fmt.Errorf("%w: %s", ErrMissingChapterFile, chapterPath)
		}
		return Chapter{}, err
	}

	return Chapter{
		ID:      item.ID,
		Href:    item.Href,
		Title:   title,
		Content: content,
	}, nil
}
