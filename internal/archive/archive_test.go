package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

type testEntry struct {
	name    string
	content string
}

// buildZip creates an in-memory zip archive from entries, preserving order.
func buildZip(t *testing.T, entries ...testEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

func TestOpen_ValidArchive(t *testing.T) {
	data := buildZip(t,
		testEntry{"mimetype", "application/epub+zip"},
		testEntry{"META-INF/container.xml", "<container/>"},
	)

	a, err := Open(data)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if !a.HasEntry("META-INF/container.xml") {
		t.Error("HasEntry(container.xml) = false, want true")
	}
	if a.HasEntry("meta-inf/container.xml") {
		t.Error("HasEntry is case-insensitive, want exact match only")
	}

	got, err := a.Text("mimetype")
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if got != "application/epub+zip" {
		t.Errorf("Text(mimetype) = %q", got)
	}
}

func TestOpen_BadSignature(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "too short", data: []byte{0x50, 0x4B}},
		{name: "plain text", data: []byte("this is not a zip file")},
		{name: "pdf header", data: []byte("%PDF-1.7\n")},
		{name: "empty zip end record only", data: []byte{0x50, 0x4B, 0x05, 0x06, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.data)
			if !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("Open() error = %v, want ErrInvalidFormat", err)
			}
			if errors.Is(err, ErrCorruptArchive) {
				t.Fatalf("Open() error = %v, signature failure must not be ErrCorruptArchive", err)
			}
		})
	}
}

func TestOpen_CorruptArchive(t *testing.T) {
	data := append([]byte{0x50, 0x4B, 0x03, 0x04}, bytes.Repeat([]byte{0xAA}, 64)...)

	_, err := Open(data)
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("Open() error = %v, want ErrCorruptArchive", err)
	}
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Open() error = %v, corrupt archive should also match ErrInvalidFormat", err)
	}
}

func TestArchive_MissingEntry(t *testing.T) {
	a, err := Open(buildZip(t, testEntry{"a.txt", "a"}))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := a.Text("b.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Text(b.txt) error = %v, want ErrNotFound", err)
	}
	if a.HasEntry("b.txt") {
		t.Error("HasEntry(b.txt) = true, want false")
	}
}

func TestArchive_EntrySizeLimit(t *testing.T) {
	a, err := Open(buildZip(t, testEntry{"big.txt", "0123456789"}), WithMaxEntrySize(4))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := a.Bytes("big.txt"); !errors.Is(err, ErrEntryTooLarge) {
		t.Fatalf("Bytes() error = %v, want ErrEntryTooLarge", err)
	}
}

func TestArchive_Entries(t *testing.T) {
	a, err := Open(buildZip(t,
		testEntry{"mimetype", "application/epub+zip"},
		testEntry{"OEBPS/", ""},
		testEntry{"OEBPS/content.opf", "<package/>"},
	))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	entries := a.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}

	wantNames := []string{"mimetype", "OEBPS/", "OEBPS/content.opf"}
	for i, want := range wantNames {
		if entries[i].Name != want {
			t.Errorf("Entries()[%d].Name = %q, want %q", i, entries[i].Name, want)
		}
	}
	if !entries[1].Dir {
		t.Error("Entries()[1].Dir = false, want true")
	}
	if entries[2].Size != uint64(len("<package/>")) {
		t.Errorf("Entries()[2].Size = %d", entries[2].Size)
	}
}

func TestArchive_ConcurrentReads(t *testing.T) {
	a, err := Open(buildZip(t,
		testEntry{"one.txt", "first"},
		testEntry{"two.txt", "second"},
	))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		name, want := "one.txt", "first"
		if i%2 == 1 {
			name, want = "two.txt", "second"
		}
		go func() {
			got, err := a.Text(name)
			if err == nil && got != want {
				err = errors.New("content mismatch for " + name)
			}
			done <- err
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}
