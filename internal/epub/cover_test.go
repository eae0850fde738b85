package epub

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDetectCover(t *testing.T) {
	coverImg := ManifestItem{ID: "cover-img", Href: "images/cover.jpg", MediaType: "image/jpeg"}
	coverPage := ManifestItem{ID: "cover-page", Href: "cover.xhtml", MediaType: "application/xhtml+xml"}
	photo := ManifestItem{ID: "photo", Href: "images/photo.png", MediaType: "image/png"}
	svg := ManifestItem{ID: "svg", Href: "images/cover.svg", MediaType: "image/svg+xml"}
	ch1 := ManifestItem{ID: "ch1", Href: "text/ch1.xhtml", MediaType: "application/xhtml+xml"}

	flagged := photo
	flagged.Properties = []string{"cover-image"}

	tests := []struct {
		name       string
		manifest   []ManifestItem
		coverID    string
		guide      []guideReference
		wantID     string
		wantMethod string
	}{
		{
			name:       "properties",
			manifest:   []ManifestItem{ch1, coverImg, flagged},
			coverID:    "cover-img",
			wantID:     "photo",
			wantMethod: "properties",
		},
		{
			name:       "meta",
			manifest:   []ManifestItem{ch1, photo},
			coverID:    "photo",
			wantID:     "photo",
			wantMethod: "meta",
		},
		{
			name:       "guide",
			manifest:   []ManifestItem{ch1, photo},
			guide:      []guideReference{{Type: "toc", Href: "text/ch1.xhtml"}, {Type: "cover", Href: "images/photo.png#x"}},
			wantID:     "photo",
			wantMethod: "guide",
		},
		{
			name:       "guide to a page falls back to filename",
			manifest:   []ManifestItem{coverPage, ch1, coverImg},
			guide:      []guideReference{{Type: "cover", Href: "cover.xhtml"}},
			wantID:     "cover-img",
			wantMethod: "filename",
		},
		{
			name:       "filename skips svg",
			manifest:   []ManifestItem{svg, coverImg},
			wantID:     "cover-img",
			wantMethod: "filename",
		},
		{
			name:     "none",
			manifest: []ManifestItem{ch1, photo, svg},
			coverID:  "missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := detectCover(tt.manifest, tt.coverID, tt.guide)
			if tt.wantID == "" {
				if ok {
					t.Fatalf("detectCover() = %+v, want none", got)
				}
				return
			}
			if !ok {
				t.Fatal("detectCover() found nothing")
			}
			if got.ManifestID != tt.wantID {
				t.Errorf("ManifestID = %q, want %q", got.ManifestID, tt.wantID)
			}
			if got.DetectionMethod != tt.wantMethod {
				t.Errorf("DetectionMethod = %q, want %q", got.DetectionMethod, tt.wantMethod)
			}
		})
	}
}

func TestIsImageMediaType(t *testing.T) {
	tests := []struct {
		mediaType string
		want      bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"image/gif", true},
		{"image/svg+xml", false},
		{"application/xhtml+xml", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isImageMediaType(tt.mediaType); got != tt.want {
			t.Errorf("isImageMediaType(%q) = %v, want %v", tt.mediaType, got, tt.want)
		}
	}
}

func coverFiles(withImage bool) []testFile {
	opf := strings.Replace(aliceOPF,
		`<item id="ch1"`,
		`<item id="cover" href="images/cover.jpg" media-type="image/jpeg" properties="cover-image"/>
    <item id="ch1"`, 1)
	files := replaceFile(aliceFiles(), "OEBPS/content.opf", opf, false)
	if withImage {
		files = append(files, testFile{"OEBPS/images/cover.jpg", "\xff\xd8\xff\xe0fake-jpeg"})
	}
	return files
}

func TestDocument_CoverImage(t *testing.T) {
	doc := loadEPUB(t, coverFiles(true)...)

	info, data, err := doc.CoverImage()
	if err != nil {
		t.Fatalf("CoverImage() error = %v", err)
	}
	if info.Path != "OEBPS/images/cover.jpg" {
		t.Errorf("Path = %q", info.Path)
	}
	if info.DetectionMethod != "properties" {
		t.Errorf("DetectionMethod = %q", info.DetectionMethod)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8}) {
		t.Errorf("data = %q, want the jpeg bytes", data)
	}
}

func TestDocument_CoverMissing(t *testing.T) {
	if _, err := loadEPUB(t, aliceFiles()...).Cover(); !errors.Is(err, ErrNoCover) {
		t.Errorf("Cover() error = %v, want ErrNoCover", err)
	}

	// listed in the manifest but absent from the archive
	_, _, err := loadEPUB(t, coverFiles(false)...).CoverImage()
	if !errors.Is(err, ErrNoCover) {
		t.Errorf("CoverImage() error = %v, want ErrNoCover", err)
	}
}
