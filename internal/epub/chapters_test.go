package epub

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yuanying/epubkit/internal/archive"
)

// delayedReader serves entries from memory, sleeping per entry so reads
// complete in an order unrelated to request order.
type delayedReader struct {
	files  map[string]string
	delays map[string]time.Duration

	mu    sync.Mutex
	order []string
}

func (r *delayedReader) Text(name string) (string, error) {
	time.Sleep(r.delays[name])
	r.mu.Lock()
	r.order = append(r.order, name)
	r.mu.Unlock()

	content, ok := r.files[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", archive.ErrNotFound, name)
	}
	return content, nil
}

func TestAssembleChapters_SpineOrderUnderPermutedCompletion(t *testing.T) {
	const n = 6
	reader := &delayedReader{files: map[string]string{}, delays: map[string]time.Duration{}}
	var spine []SpineItem
	var manifest []ManifestItem
	for i := range n {
		id := fmt.Sprintf("ch%d", i)
		href := fmt.Sprintf("text/%s.xhtml", id)
		manifest = append(manifest, ManifestItem{ID: id, Href: href, MediaType: "application/xhtml+xml"})
		spine = append(spine, SpineItem{IDRef: id, Linear: true})
		reader.files["OEBPS/"+href] = "content of " + id
		// earlier spine positions finish later
		reader.delays["OEBPS/"+href] = time.Duration(n-i) * 5 * time.Millisecond
	}

	chapters, err := assembleChapters(reader, "OEBPS/content.opf", spine, manifest, nil, n)
	if err != nil {
		t.Fatalf("assembleChapters() error = %v", err)
	}
	if len(chapters) != n {
		t.Fatalf("len = %d, want %d", len(chapters), n)
	}
	for i, ch := range chapters {
		wantID := fmt.Sprintf("ch%d", i)
		if ch.ID != wantID || ch.Content != "content of "+wantID {
			t.Errorf("chapters[%d] = {%q, %q}, want %q", i, ch.ID, ch.Content, wantID)
		}
		if ch.Title != "" {
			t.Errorf("chapters[%d].Title = %q, want empty without a TOC entry", i, ch.Title)
		}
	}
	if reader.order[0] != "OEBPS/text/ch5.xhtml" {
		t.Logf("reads completed in order %v", reader.order)
	}
}

func TestAssembleChapters_EarliestFailureWins(t *testing.T) {
	reader := &delayedReader{
		files: map[string]string{"ch0.xhtml": "ok"},
		delays: map[string]time.Duration{
			"ch1.xhtml": 30 * time.Millisecond,
			"ch2.xhtml": 0,
		},
	}
	manifest := []ManifestItem{
		{ID: "a", Href: "ch0.xhtml"},
		{ID: "b", Href: "ch1.xhtml"},
		{ID: "c", Href: "ch2.xhtml"},
	}
	spine := []SpineItem{{IDRef: "a"}, {IDRef: "b"}, {IDRef: "c"}}

	_, err := assembleChapters(reader, "content.opf", spine, manifest, nil, 3)
	if !errors.Is(err, ErrMissingChapterFile) {
		t.Fatalf("assembleChapters() error = %v, want ErrMissingChapterFile", err)
	}
	if !strings.Contains(err.Error(), "ch1.xhtml") {
		t.Errorf("error = %v, want the failure of the earlier spine position", err)
	}
}

func TestAssembleChapters_DanglingReference(t *testing.T) {
	reader := &delayedReader{files: map[string]string{"ch1.xhtml": "x"}}
	manifest := []ManifestItem{{ID: "ch1", Href: "ch1.xhtml"}}
	spine := []SpineItem{{IDRef: "ch1"}, {IDRef: "ghost"}}

	_, err := assembleChapters(reader, "content.opf", spine, manifest, nil, 1)
	if !errors.Is(err, ErrDanglingSpineReference) {
		t.Fatalf("assembleChapters() error = %v, want ErrDanglingSpineReference", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error = %v, want the dangling idref named", err)
	}
	if len(reader.order) != 0 {
		t.Errorf("content was read before idrefs were validated: %v", reader.order)
	}
}

func TestAssembleChapters_DuplicateIDUsesFirstItem(t *testing.T) {
	reader := &delayedReader{files: map[string]string{"first.xhtml": "first", "second.xhtml": "second"}}
	manifest := []ManifestItem{
		{ID: "ch", Href: "first.xhtml"},
		{ID: "ch", Href: "second.xhtml"},
	}

	chapters, err := assembleChapters(reader, "content.opf", []SpineItem{{IDRef: "ch"}}, manifest, nil, 1)
	if err != nil {
		t.Fatalf("assembleChapters() error = %v", err)
	}
	if chapters[0].Content != "first" {
		t.Errorf("Content = %q, want first", chapters[0].Content)
	}
}

func TestAssembleChapters_NonLinearIncluded(t *testing.T) {
	reader := &delayedReader{files: map[string]string{"cover.xhtml": "cover", "ch1.xhtml": "one"}}
	manifest := []ManifestItem{{ID: "cover", Href: "cover.xhtml"}, {ID: "ch1", Href: "ch1.xhtml"}}
	spine := []SpineItem{{IDRef: "cover", Linear: false}, {IDRef: "ch1", Linear: true}}
	toc := []TocEntry{{Label: "One", Href: "ch1.xhtml", Children: []TocEntry{}}}

	chapters, err := assembleChapters(reader, "content.opf", spine, manifest, toc, 0)
	if err != nil {
		t.Fatalf("assembleChapters() error = %v", err)
	}
	if len(chapters) != 2 || chapters[0].ID != "cover" {
		t.Fatalf("chapters = %+v", chapters)
	}
	if chapters[0].Title != "" || chapters[1].Title != "One" {
		t.Errorf("titles = %q, %q", chapters[0].Title, chapters[1].Title)
	}
}

func TestParse_MissingChapterFile(t *testing.T) {
	files := replaceFile(aliceFiles(), "OEBPS/text/chapter2.xhtml", "", true)
	_, err := loadEPUB(t, files...).Parse()
	if !errors.Is(err, ErrMissingChapterFile) {
		t.Fatalf("Parse() error = %v, want ErrMissingChapterFile", err)
	}
	if !strings.Contains(err.Error(), "OEBPS/text/chapter2.xhtml") {
		t.Errorf("error = %v, want resolved path", err)
	}
}

func TestParse_ConcurrencyOne(t *testing.T) {
	doc, err := Load(buildEPUB(t, aliceFiles()...), WithConcurrency(1))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	chapters, err := doc.Chapters()
	if err != nil {
		t.Fatalf("Chapters() error = %v", err)
	}
	if len(chapters) != 3 || chapters[2].ID != "ch3" {
		t.Errorf("Chapters() = %+v", chapters)
	}
}
