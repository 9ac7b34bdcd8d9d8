package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/config"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
)

type splitFlags struct {
	rows    string
	cols    string
	out     string
	quality int
	upload  bool
}

func newSplitCommand(gf *globalFlags) *cobra.Command {
	flags := &splitFlags{}

	cmd := &cobra.Command{
		Use:   "split IMAGE",
		Short: "Split an image into tiles",
		Long: `Split IMAGE into rows x cols JPEG tiles named {name}_{row}_{col}.jpg.

The output directory is created if missing and existing tiles of the same
name are overwritten. If a write fails part way, tiles already written stay.

Examples:
  gridsplit split photo.png --rows 2 --cols 3 --out tiles/
  gridsplit split photo.png -r 4 -c 4 -o tiles/ --upload`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("quality") {
				flags.quality = 0
			}
			return runSplit(cmd.Context(), cmd.OutOrStdout(), gf, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.rows, "rows", "r", "", "Number of rows")
	cmd.Flags().StringVarP(&flags.cols, "cols", "c", "", "Number of columns")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output directory")
	cmd.Flags().IntVarP(&flags.quality, "quality", "q", split.DefaultQuality, "JPEG quality 1-100 (overrides config)")
	cmd.Flags().BoolVar(&flags.upload, "upload", false, "Upload tiles to the configured bucket afterwards")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("cols")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runSplit(ctx context.Context, w io.Writer, gf *globalFlags, flags *splitFlags, image string) error {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return err
	}
	if flags.quality != 0 {
		cfg.Export.Quality = flags.quality
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	res, err := newExporter(cfg).ExportText(image, flags.out, flags.rows, flags.cols)
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		fmt.Fprintln(w, f)
	}
	fmt.Fprintf(w, "split %dx%d image into %d tiles (%s)\n", res.Size.X, res.Size.Y, len(res.Files), res.Grid)

	if !flags.upload {
		return nil
	}
	u, err := newUploader(ctx, cfg)
	if err != nil {
		return &UploadError{Err: err}
	}
	keys, err := u.Upload(ctx, res.Files)
	if err != nil {
		return &UploadError{Err: err}
	}
	fmt.Fprintf(w, "uploaded %d objects to %s\n", len(keys), cfg.Storage.Bucket)
	return nil
}
