package epub

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Text returns the visible text of the chapter body with runs of
// whitespace collapsed to single spaces. Content itself is left untouched.
func (c Chapter) Text() (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.Content))
	if err != nil {
		return "", fmt.Errorf("failed to parse XHTML %s: %w", c.Href, err)
	}

	body := doc.Find("body")
	body.Find("script, style").Remove()
	return collapseSpace(body.Text()), nil
}

// WordCount counts whitespace-separated words in the chapter text.
func (c Chapter) WordCount() (int, error) {
	text, err := c.Text()
	if err != nil {
		return 0, err
	}
	return len(strings.Fields(text)), nil
}
