package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuanying/epubkit/internal/cover"
)

func newCoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover FILE",
		Short: "Export the cover image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			thumbnail, _ := flags.GetBool("thumbnail")
			if flags.Changed("max-width") {
				w, _ := flags.GetInt("max-width")
				if w <= 0 {
					return fmt.Errorf("--max-width must be positive, got %d", w)
				}
				opts.Config.Cover.MaxWidth = w
			}
			if flags.Changed("quality") {
				q, _ := flags.GetInt("quality")
				if q < 1 || q > 100 {
					return fmt.Errorf("--quality must be between 1 and 100, got %d", q)
				}
				opts.Config.Cover.JPEGQuality = q
			}

			doc, err := opts.loadDocument(args[0])
			if err != nil {
				return err
			}
			info, data, err := doc.CoverImage()
			if err != nil {
				return err
			}

			ext := cover.Extension(info.MediaType)
			if thumbnail {
				img, err := cover.Thumbnail(data, opts.Config.Cover.MaxWidth, opts.Config.Cover.JPEGQuality)
				if err != nil {
					return err
				}
				data, ext = img.Data, ".jpg"
				opts.Logger.Debug("rendered thumbnail", "width", img.Width, "height", img.Height)
			}
			if ext == "" {
				ext = filepath.Ext(info.Href)
			}

			outputPath, _ := flags.GetString("output")
			if outputPath == "" {
				outputPath = defaultCoverPath(args[0], ext)
			}
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("write cover: %w", err)
			}

			opts.Logger.Info("wrote cover",
				"path", outputPath,
				"source", info.Path,
				"method", info.DetectionMethod,
				"bytes", len(data),
			)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file path (default: input name with -cover suffix)")
	cmd.Flags().Bool("thumbnail", false, "Downsize and re-encode as JPEG")
	cmd.Flags().Int("max-width", 0, "Thumbnail width limit (default from config)")
	cmd.Flags().Int("quality", 0, "Thumbnail JPEG quality 1-100 (default from config)")
	return cmd
}

// defaultCoverPath derives "book-cover.jpg" from "book.epub".
func defaultCoverPath(inputPath, ext string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "-cover" + ext
}
