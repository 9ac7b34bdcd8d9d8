// Package cli implements the cobra command tree of the gridsplit binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/config"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/logger"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/preview"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/session"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/storage"
)

// Set from main via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// globalFlags are the persistent flags shared by every sub-command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func NewRootCommand() *cobra.Command {
	gf := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "gridsplit",
		Short: "Split an image into an evenly sized grid of tiles",
		Long: `gridsplit cuts one image into rows x cols tiles and writes each tile as
{name}_{row}_{col}.jpg. The last row and column absorb any remainder pixels.

Run without a sub-command to open the interactive splitter, which previews
the cut lines as you type before anything is written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if gf.verbose {
				logger.SetVerbose(true)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), gf, &uiFlags{})
		},
	}

	rootCmd.PersistentFlags().StringVar(&gf.configPath, "config", "",
		"Config file (default "+config.DefaultConfigPath+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&gf.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSplitCommand(gf))
	rootCmd.AddCommand(newPreviewCommand(gf))
	rootCmd.AddCommand(newUICommand(gf))

	return rootCmd
}

// Execute runs rootCmd and exits with the code matching the failure.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitCode(err))
	}
}

// Exit codes.
const (
	ExitOK          = 0
	ExitGeneral     = 1
	ExitInvalidGrid = 2
	ExitSource      = 3
	ExitOutput      = 4
	ExitUpload      = 5
)

// UploadError marks a failure that happened after all tiles were written.
type UploadError struct{ Err error }

func (e *UploadError) Error() string { return "upload: " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var upErr *UploadError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &upErr):
		return ExitUpload
	case errors.Is(err, split.ErrInvalidGridSpec):
		return ExitInvalidGrid
	case errors.Is(err, split.ErrSourceNotFound), errors.Is(err, split.ErrImageDecode):
		return ExitSource
	case errors.Is(err, split.ErrOutputDirUnwritable):
		return ExitOutput
	default:
		return ExitGeneral
	}
}

func newExporter(cfg config.Config) *split.Exporter {
	return split.NewExporter(split.WithQuality(cfg.Export.Quality))
}

func newRenderer(cfg config.Config) *preview.Renderer {
	return &preview.Renderer{LineWidth: cfg.Preview.LineWidth, LineColor: cfg.Preview.LineColor}
}

// newController wires a session controller from cfg. With upload set the
// storage section must name a bucket.
func newController(ctx context.Context, cfg config.Config, upload bool) (*session.Controller, error) {
	opts := []session.Option{
		session.WithThumbnailBox(cfg.Preview.MaxWidth, cfg.Preview.MaxHeight),
	}
	if upload {
		u, err := newUploader(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithUploader(u))
	}
	return session.New(newExporter(cfg), newRenderer(cfg), opts...), nil
}

func newUploader(ctx context.Context, cfg config.Config) (*storage.Uploader, error) {
	if !cfg.Storage.Enabled() {
		return nil, errors.New("--upload needs a [storage] bucket in the config file")
	}
	return storage.NewUploader(ctx, cfg.Storage)
}
