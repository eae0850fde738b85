package main

import (
	"github.com/spf13/cobra"

	"github.com/yuanying/epubkit/internal/archive"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE DIR",
		Short: "Unpack every archive entry into DIR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readCLIOptions(cmd)
			if err != nil {
				return err
			}

			src, dest := args[0], args[1]
			ex := archive.NewExtractor(opts.Logger)
			ex.MaxEntrySize = opts.Config.MaxEntryBytes()
			if err := ex.ExtractFile(src, dest); err != nil {
				return err
			}
			opts.Logger.Info("extracted archive", "file", src, "target", dest)
			return nil
		},
	}
}
