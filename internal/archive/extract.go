package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when an entry name would land outside the target directory.
var ErrUnsafePath = errors.New("archive: entry path escapes target directory")

// Extractor streams every archive entry into a directory tree.
type Extractor struct {
	Logger *slog.Logger
	// MaxEntrySize caps each entry's decompressed size. Zero means DefaultMaxEntrySize.
	MaxEntrySize int64
}

// NewExtractor returns an Extractor that logs through logger. A nil logger discards.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{Logger: logger, MaxEntrySize: DefaultMaxEntrySize}
}

// ExtractFile opens the zip at zipPath and writes its entries under targetDir.
func (e *Extractor) ExtractFile(zipPath, targetDir string) error {
	f, err := os.Open(zipPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", zipPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", zipPath, err)
	}
	return e.Extract(f, info.Size(), targetDir)
}

// Extract writes the entries of the zip held in r under targetDir. Input
// that does not start with a zip local file header fails with ErrInvalidFormat.
func (e *Extractor) Extract(r io.ReaderAt, size int64, targetDir string) error {
	sig := make([]byte, len(localFileHeader))
	if n, _ := r.ReadAt(sig, 0); n < len(sig) || !bytes.Equal(sig, localFileHeader) {
		return ErrInvalidFormat
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptArchive, err)
	}
	return e.extract(zr, targetDir)
}

func (e *Extractor) extract(zr *zip.Reader, targetDir string) error {
	root, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolve target directory: %w", err)
	}

	for _, f := range zr.File {
		dest, err := safeJoin(root, f.Name)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", f.Name, err)
		}

		if strings.HasSuffix(f.Name, "/") {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", f.Name, err)
			}
			continue
		}

		n, err := writeEntry(f, dest, e.limit())
		if err != nil {
			return err
		}
		e.Logger.Debug("extracted entry", "entry", f.Name, "bytes", n)
	}

	return nil
}

func (e *Extractor) limit() int64 {
	if e.MaxEntrySize > 0 {
		return e.MaxEntrySize
	}
	return DefaultMaxEntrySize
}

// safeJoin joins name onto root, rejecting absolute names and ".." escapes.
func safeJoin(root, name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	dest := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return dest, nil
}

func writeEntry(f *zip.File, dest string, limit int64) (int64, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return 0, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrEntryTooLarge, f.Name, f.UncompressedSize64, limit)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dest, err)
	}

	n, err := io.Copy(out, io.LimitReader(rc, limit+1))
	if err != nil {
		out.Close()
		return n, fmt.Errorf("write %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", dest, err)
	}
	if n > limit {
		os.Remove(dest)
		return n, fmt.Errorf("%w: %s (max %d)", ErrEntryTooLarge, f.Name, limit)
	}
	return n, nil
}
