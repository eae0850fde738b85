package epub

import (
	"errors"

	"github.com/yuanying/epubkit/internal/archive"
)

// Sentinel errors returned by the epub package. Detail is attached with
// fmt.Errorf("%w"), so match with errors.Is.
var (
	ErrFileNotFound   = errors.New("epub: file not found")
	ErrInvalidFormat  = archive.ErrInvalidFormat
	ErrCorruptArchive = archive.ErrCorruptArchive

	ErrMalformedContainer     = errors.New("epub: malformed container descriptor")
	ErrMissingPackageDocument = errors.New("epub: missing package document")
	ErrMissingMetadata        = errors.New("epub: missing metadata in package document")
	ErrMissingManifest        = errors.New("epub: missing manifest in package document")
	ErrMissingSpine           = errors.New("epub: missing spine in package document")

	ErrNoTableOfContents  = errors.New("epub: no table of contents found (neither nav nor NCX)")
	ErrMissingNav         = errors.New("epub: nav document not found")
	ErrInvalidNavDocument = errors.New("epub: nav document does not contain a valid table of contents")
	ErrMissingNcx         = errors.New("epub: NCX document not found")
	ErrInvalidNcxDocument = errors.New("epub: NCX document has no navigation points")

	ErrDanglingSpineReference = errors.New("epub: spine item not found in manifest")
	ErrMissingChapterFile     = errors.New("epub: chapter file not found")

	ErrNoCover = errors.New("epub: no cover image found")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrFileNotFound, "FileNotFound"},
	{ErrInvalidFormat, "InvalidFormat"},
	{ErrMalformedContainer, "MalformedContainer"},
	{ErrMissingPackageDocument, "MissingPackageDocument"},
	{ErrMissingMetadata, "MissingMetadata"},
	{ErrMissingManifest, "MissingManifest"},
	{ErrMissingSpine, "MissingSpine"},
	{ErrNoTableOfContents, "NoTableOfContents"},
	{ErrMissingNav, "MissingNav"},
	{ErrInvalidNavDocument, "InvalidNavDocument"},
	{ErrMissingNcx, "MissingNcx"},
	{ErrInvalidNcxDocument, "InvalidNcxDocument"},
	{ErrDanglingSpineReference, "DanglingSpineReference"},
	{ErrMissingChapterFile, "MissingChapterFile"},
	{ErrNoCover, "NoCover"},
}

// Kind names the failure class of err, or "Unknown" when err is not one
// of this package's sentinels. A nil error has kind "".
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Unknown"
}
