package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yuanying/epubkit/internal/epub"
)

func newTOCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toc FILE",
		Short: "Print the table of contents",
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
			toc, err := doc.TOC()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := tocRows(toc, 0, nil)
			fmt.Fprintln(out, renderTable(out, []string{"#", "Label", "Href"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
}

// tocRows flattens the tree in pre-order, indenting labels by depth.
func tocRows(entries []epub.TocEntry, depth int, rows [][]string) [][]string {
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(len(rows) + 1),
			strings.Repeat("  ", depth) + orDash(e.Label),
			e.Href,
		})
		rows = tocRows(e.Children, depth+1, rows)
	}
	return rows
}

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters FILE",
		Short: "List chapters in reading order",
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
			chapters, err := doc.Chapters()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(chapters))
			totalWords := 0
			for i, ch := range chapters {
				words, err := ch.WordCount()
				if err != nil {
					opts.Logger.Warn("failed to count words", "chapter", ch.ID, "error", err)
				}
				totalWords += words
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					ch.ID,
					ch.Href,
					orDash(ch.Title),
					humanize.IBytes(uint64(len(ch.Content))),
					humanize.Comma(int64(words)),
				})
			}

			out := cmd.OutOrStdout()
			headers := []string{"#", "ID", "Href", "Title", "Size", "Words"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
			fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
			fmt.Fprintf(out, "%d chapters, %s words\n", len(chapters), humanize.Comma(int64(totalWords)))
			return nil
		},
	}
}

func newLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls FILE",
		Short: "List archive entries",
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

			entries := doc.Entries()
			rows := make([][]string, 0, len(entries))
			var total uint64
			for _, e := range entries {
				size := humanize.IBytes(e.Size)
				if e.Dir {
					size = "dir"
				}
				total += e.Size
				rows = append(rows, []string{e.Name, size})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Name", "Size"}, rows, []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(out, "%d entries, %s uncompressed\n", len(entries), humanize.IBytes(total))
			return nil
		},
	}
}
