package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxEntrySize caps the decompressed size of a single entry.
const DefaultMaxEntrySize int64 = 256 * 1024 * 1024

// localFileHeader is the zip local file header signature "PK\x03\x04".
var localFileHeader = []byte{0x50, 0x4B, 0x03, 0x04}

var (
	ErrInvalidFormat  = errors.New("archive: invalid format")
	ErrCorruptArchive = fmt.Errorf("%w: corrupt zip archive", ErrInvalidFormat)
	ErrNotFound       = errors.New("archive: entry not found")
	ErrEntryTooLarge  = errors.New("archive: entry exceeds size limit")
)

// Entry describes one named member of the archive.
type Entry struct {
	Name string
	Size uint64
	Dir  bool
}

// Archive is a read-only view over zip bytes. Entries are looked up by
// exact name. Reads of distinct entries may run concurrently.
type Archive struct {
	zr      *zip.Reader
	files   map[string]*zip.File
	maxSize int64
}

// Option configures Open.
type Option func(*Archive)

// WithMaxEntrySize overrides DefaultMaxEntrySize. Non-positive values are ignored.
func WithMaxEntrySize(n int64) Option {
	return func(a *Archive) {
		if n > 0 {
			a.maxSize = n
		}
	}
}

// Open validates the zip signature and indexes the archive entries.
func Open(data []byte, opts ...Option) (*Archive, error) {
	if !bytes.HasPrefix(data, localFileHeader) {
		return nil, ErrInvalidFormat
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	a := &Archive{
		zr:      zr,
		files:   make(map[string]*zip.File, len(zr.File)),
		maxSize: DefaultMaxEntrySize,
	}
	for _, opt := range opts {
		opt(a)
	}

	for _, f := range zr.File {
		// first entry wins when a name repeats
		if _, ok := a.files[f.Name]; !ok {
			a.files[f.Name] = f
		}
	}

	return a, nil
}

// HasEntry reports whether an entry with exactly this name exists.
func (a *Archive) HasEntry(name string) bool {
	_, ok := a.files[name]
	return ok
}

// Entries lists the archive members in archive order.
func (a *Archive) Entries() []Entry {
	entries := make([]Entry, 0, len(a.zr.File))
	for _, f := range a.zr.File {
		entries = append(entries, Entry{
			Name: f.Name,
			Size: f.UncompressedSize64,
			Dir:  f.FileInfo().IsDir(),
		})
	}
	return entries
}

// Bytes reads the full contents of the named entry.
func (a *Archive) Bytes(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return readFile(f, a.maxSize)
}

// Text reads the named entry as a string.
func (a *Archive) Text(name string) (string, error) {
	data, err := a.Bytes(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readFile reads f, refusing to decompress more than limit bytes. The
// declared size is checked first, then the actual stream, since headers
// can lie.
func readFile(f *zip.File, limit int64) ([]byte, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrEntryTooLarge, f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrCorruptArchive, f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCorruptArchive, f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s (max %d)", ErrEntryTooLarge, f.Name, limit)
	}
	return data, nil
}
