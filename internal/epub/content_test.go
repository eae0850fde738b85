package epub

import "testing"

func TestChapter_Text(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		words   int
	}{
		{
			name:    "simple",
			content: chapterXHTML("Chapter 1", "This is a sample paragraph."),
			want:    "Chapter 1 This is a sample paragraph.",
			words:   7,
		},
		{
			name: "scripts and styles dropped",
			content: `<html><head><title>ignored</title></head><body>
<style>p { color: red; }</style>
<p>Visible
   text</p>
<script>var hidden = 1;</script>
</body></html>`,
			want:  "Visible text",
			words: 2,
		},
		{
			name:    "empty body",
			content: `<html><body></body></html>`,
			want:    "",
			words:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := Chapter{ID: "c", Href: "c.xhtml", Content: tt.content}

			got, err := ch.Text()
			if err != nil {
				t.Fatalf("Text() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}

			n, err := ch.WordCount()
			if err != nil {
				t.Fatalf("WordCount() error = %v", err)
			}
			if n != tt.words {
				t.Errorf("WordCount() = %d, want %d", n, tt.words)
			}
		})
	}
}

func TestChapter_TextLeavesContentUntouched(t *testing.T) {
	content := chapterXHTML("T", "<b>bold</b>")
	ch := Chapter{Content: content}
	if _, err := ch.Text(); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if ch.Content != content {
		t.Error("Text() modified Content")
	}
}
