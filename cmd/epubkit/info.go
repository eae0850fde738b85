package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/yuanying/epubkit/internal/cover"
	"github.com/yuanying/epubkit/internal/epub"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show book metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd)
			if err != nil {
				return err
			}
			doc, err := opts.loadDocument(args[0])
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				book, err := doc.Parse()
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(book)
			}
			return writeInfo(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().Bool("json", false, "Print the complete parse result as JSON")
	return cmd
}

func writeInfo(w io.Writer, doc *epub.Document) error {
	pkgPath, err := doc.ContainerPath()
	if err != nil {
		return err
	}
	md, err := doc.Metadata()
	if err != nil {
		return err
	}
	manifest, err := doc.Manifest()
	if err != nil {
		return err
	}
	spine, err := doc.Spine()
	if err != nil {
		return err
	}

	nonLinear := 0
	for _, item := range spine {
		if !item.Linear {
			nonLinear++
		}
	}

	coverLine := "-"
	info, data, err := doc.CoverImage()
	switch {
	case err == nil:
		coverLine = fmt.Sprintf("%s (%s)", info.Path, info.DetectionMethod)
		if img, err := cover.Inspect(data); err == nil {
			coverLine = fmt.Sprintf("%s (%s, %dx%d %s)", info.Path, info.DetectionMethod, img.Width, img.Height, img.Format)
		}
	case !errors.Is(err, epub.ErrNoCover):
		return err
	}

	fields := []struct {
		label string
		value string
	}{
		{"Title", orDash(md.Title)},
		{"Author", orDash(md.Author)},
		{"Language", languageName(md.Language)},
		{"Publisher", optional(md.Publisher)},
		{"Date", optional(md.Date)},
		{"Rights", optional(md.Rights)},
		{"Identifiers", orDash(strings.Join(md.Identifiers, ", "))},
		{"Package", pkgPath},
		{"Manifest", fmt.Sprintf("%d items", len(manifest))},
		{"Spine", fmt.Sprintf("%d items (%d non-linear)", len(spine), nonLinear)},
		{"Cover", coverLine},
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%-12s %s\n", f.label+":", f.value); err != nil {
			return err
		}
	}
	if md.Description != nil {
		if _, err := fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(*md.Description)); err != nil {
			return err
		}
	}
	return nil
}

// languageName appends the English display name to a BCP 47 tag, e.g.
// "en-US (American English)". Unparseable tags are returned as-is.
func languageName(tag string) string {
	if tag == "" {
		return "-"
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	name := display.English.Tags().Name(parsed)
	if name == "" {
		return tag
	}
	return fmt.Sprintf("%s (%s)", tag, name)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return orDash(*s)
}
