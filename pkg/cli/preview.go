package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/config"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/preview"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/session"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
)

type previewFlags struct {
	rows string
	cols string
	out  string
}

func newPreviewCommand(gf *globalFlags) *cobra.Command {
	flags := &previewFlags{}

	cmd := &cobra.Command{
		Use:   "preview IMAGE",
		Short: "Render the grid overlay without writing tiles",
		Long: `Render a thumbnail of IMAGE with the cut lines drawn on it and save it.
Unparsable rows or cols render an unmarked thumbnail instead of failing.

Example:
  gridsplit preview photo.png --rows 2 --cols 3 --out preview.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), cmd.OutOrStdout(), gf, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.rows, "rows", "r", "1", "Number of rows")
	cmd.Flags().StringVarP(&flags.cols, "cols", "c", "1", "Number of columns")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "preview.png", "Preview file to write")

	return cmd
}

func runPreview(ctx context.Context, w io.Writer, gf *globalFlags, flags *previewFlags, image string) error {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return err
	}
	ctrl, err := newController(ctx, cfg, false)
	if err != nil {
		return err
	}

	st := ctrl.SetRows(session.State{}, flags.rows)
	st = ctrl.SetCols(st, flags.cols)
	st, notice := ctrl.SelectImage(st, image)
	if notice != nil {
		return fmt.Errorf("%s: %w", notice, split.ErrImageDecode)
	}

	if err := preview.Save(st.Preview, flags.out); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	fmt.Fprintln(w, session.PreviewSummary(st))
	fmt.Fprintf(w, "preview written to %s\n", flags.out)
	return nil
}
