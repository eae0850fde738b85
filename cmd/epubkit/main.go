package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yuanying/epubkit/internal/config"
	"github.com/yuanying/epubkit/internal/epub"
	"github.com/yuanying/epubkit/internal/logging"
)

// cliOptions is the effective configuration of one invocation: the config
// file (or defaults) with command-line overrides applied.
type cliOptions struct {
	Config     config.Config
	ConfigPath string
	Logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "epubkit",
		Short: "Inspect and unpack EPUB ebooks",
		Long: `epubkit reads EPUB 2 and EPUB 3 archives and reports their metadata,
table of contents and chapters. It can also unpack an archive and export
the cover image.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default ~/.config/epubkit/config.toml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text, json")
	pf.BoolP("verbose", "v", false, "Enable debug logging (overrides --log-level)")
	pf.Int("concurrency", 0, "Chapters read in parallel (0 = one per CPU)")
	pf.Int64("max-entry-mib", 0, "Largest decompressed archive entry accepted, in MiB")

	root.AddCommand(
		newInfoCmd(),
		newTOCCmd(),
		newChaptersCmd(),
		newLsCmd(),
		newExtractCmd(),
		newCoverCmd(),
		newConfigCmd(),
	)
	return root
}

// readCLIOptions loads the config file and applies flag overrides.
func readCLIOptions(cmd *cobra.Command) (*cliOptions, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")

	cfg, resolved, _, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		level = strings.ToLower(strings.TrimSpace(level))
		if !slices.Contains(logging.Levels, level) {
			return nil, fmt.Errorf("--log-level must be one of %s, got %q", strings.Join(logging.Levels, ", "), level)
		}
		cfg.Logging.Level = level
	}
	if flags.Changed("log-format") {
		format, _ := flags.GetString("log-format")
		format = strings.ToLower(strings.TrimSpace(format))
		if !slices.Contains(logging.Formats, format) {
			return nil, fmt.Errorf("--log-format must be one of %s, got %q", strings.Join(logging.Formats, ", "), format)
		}
		cfg.Logging.Format = format
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if flags.Changed("concurrency") {
		n, _ := flags.GetInt("concurrency")
		if n < 0 {
			return nil, fmt.Errorf("--concurrency must be zero or positive, got %d", n)
		}
		cfg.Parse.Concurrency = n
	}
	if flags.Changed("max-entry-mib") {
		n, _ := flags.GetInt64("max-entry-mib")
		if n <= 0 {
			return nil, fmt.Errorf("--max-entry-mib must be positive, got %d", n)
		}
		cfg.Parse.MaxEntryMiB = n
	}

	return &cliOptions{
		Config:     *cfg,
		ConfigPath: resolved,
		Logger:     logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format),
	}, nil
}

// loadDocument opens the EPUB at path with the configured parse limits.
func (o *cliOptions) loadDocument(path string) (*epub.Document, error) {
	opts := []epub.Option{epub.WithMaxEntrySize(o.Config.MaxEntryBytes())}
	if o.Config.Parse.Concurrency > 0 {
		opts = append(opts, epub.WithConcurrency(o.Config.Parse.Concurrency))
	}

	doc, err := epub.LoadFile(path, opts...)
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("loaded epub", "file", path, "entries", len(doc.Entries()))
	return doc, nil
}

// formatError renders err as "error [Kind]: message".
func formatError(err error) string {
	if errors.Is(err, fs.ErrNotExist) && !errors.Is(err, epub.ErrFileNotFound) {
		err = fmt.Errorf("%w: %w", epub.ErrFileNotFound, err)
	}
	return fmt.Sprintf("error [%s]: %v", epub.Kind(err), err)
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, formatError(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
