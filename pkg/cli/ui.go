package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/config"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/logger"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/session"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/tui"
)

// LogFileEnv names a file that receives log output while the UI owns the
// terminal.
const LogFileEnv = "GRIDSPLIT_LOGFILE"

type uiFlags struct {
	image  string
	rows   string
	cols   string
	out    string
	upload bool
}

func newUICommand(gf *globalFlags) *cobra.Command {
	flags := &uiFlags{}

	cmd := &cobra.Command{
		Use:   "ui [IMAGE]",
		Short: "Open the interactive splitter",
		Long: `Open the interactive splitter. Fill in the image, output directory, rows
and columns; the preview with cut lines is rewritten on every change.
Press ctrl+s to split.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.image = args[0]
			}
			return runUI(cmd.Context(), gf, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.rows, "rows", "r", "", "Initial number of rows")
	cmd.Flags().StringVarP(&flags.cols, "cols", "c", "", "Initial number of columns")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Initial output directory")
	cmd.Flags().BoolVar(&flags.upload, "upload", false, "Upload tiles to the configured bucket after each split")

	return cmd
}

func runUI(ctx context.Context, gf *globalFlags, flags *uiFlags) error {
	// stderr belongs to the UI now
	logger.SetOutput(io.Discard)
	if path := os.Getenv(LogFileEnv); path != "" {
		f, err := tea.LogToFile(path, "gridsplit")
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	}
	defer logger.SetOutput(os.Stderr)

	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return err
	}
	ctrl, err := newController(ctx, cfg, flags.upload)
	if err != nil {
		return err
	}

	model := tui.New(ctrl, cfg.Preview.Output, session.State{
		ImagePath: flags.image,
		OutputDir: flags.out,
		RowsText:  flags.rows,
		ColsText:  flags.cols,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
