// Package session holds the state of one interactive splitting session and
// the handlers that move it forward. Front ends (the terminal UI, tests) feed
// user actions in and render the returned state and notices; no handler
// touches global state.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/logger"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/preview"
	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
)

type Level int

const (
	Info Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "info"
}

// Notice is a message the front end must show the user.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

func (n Notice) String() string { return n.Title + ": " + n.Message }

// State is everything the user has entered plus what was derived from it.
// Handlers return a new State; the zero value is an empty session.
type State struct {
	ImagePath string
	OutputDir string
	RowsText  string
	ColsText  string

	Source  image.Point // full resolution size of the loaded image
	Thumb   image.Image // downscaled source, nil until an image loads
	Preview image.Image // Thumb with the grid drawn on it

	Written []string // tiles of the last successful split
}

// Loaded reports whether an image has been loaded for preview.
func (s State) Loaded() bool { return s.Thumb != nil }

// Grid is the grid the preview currently shows.
func (s State) Grid() split.Grid { return split.PreviewGrid(s.RowsText, s.ColsText) }

// Uploader publishes written tiles somewhere after a split.
type Uploader interface {
	Upload(ctx context.Context, files []string) ([]string, error)
}

type Controller struct {
	exporter *split.Exporter
	renderer *preview.Renderer
	maxW     int
	maxH     int
	uploader Uploader
	log      *log.Logger
}

type Option func(*Controller)

// WithThumbnailBox sets the box the preview thumbnail is fitted into.
func WithThumbnailBox(w, h int) Option {
	return func(c *Controller) {
		if w > 0 && h > 0 {
			c.maxW, c.maxH = w, h
		}
	}
}

// WithUploader publishes tiles after every successful split.
func WithUploader(u Uploader) Option {
	return func(c *Controller) { c.uploader = u }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

func New(exporter *split.Exporter, renderer *preview.Renderer, opts ...Option) *Controller {
	c := &Controller{
		exporter: exporter,
		renderer: renderer,
		maxW:     preview.DefaultMaxWidth,
		maxH:     preview.DefaultMaxHeight,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.New("session")
	}
	return c
}

// SelectImage loads the image at path for preview. An empty path is a
// cancelled dialog and changes nothing. If the image cannot be decoded the
// path is kept and the previous preview stays.
func (c *Controller) SelectImage(s State, path string) (State, *Notice) {
	if path == "" {
		return s, nil
	}
	s.ImagePath = path

	img, err := imaging.Open(path)
	if err != nil {
		c.log.Warn("load failed", "path", path, "err", err)
		return s, &Notice{
			Level:   Error,
			Title:   "Image load error",
			Message: fmt.Sprintf("Cannot load image: %v", err),
		}
	}

	s.Source = img.Bounds().Size()
	s.Thumb = preview.Thumbnail(img, c.maxW, c.maxH)
	c.log.Debug("image loaded", "path", path, "size", s.Source, "thumb", s.Thumb.Bounds().Size())
	return c.refresh(s), nil
}

// SelectOutputDir sets the output directory. Empty means cancelled.
func (c *Controller) SelectOutputDir(s State, path string) State {
	if path != "" {
		s.OutputDir = path
	}
	return s
}

// SetRows stores the rows field and redraws the preview.
func (c *Controller) SetRows(s State, text string) State {
	s.RowsText = text
	return c.refresh(s)
}

// SetCols stores the cols field and redraws the preview.
func (c *Controller) SetCols(s State, text string) State {
	s.ColsText = text
	return c.refresh(s)
}

func (c *Controller) refresh(s State) State {
	if !s.Loaded() {
		return s
	}
	s.Preview = c.renderer.RenderText(s.Thumb, s.RowsText, s.ColsText)
	return s
}

// Split exports the tiles for the current state and, when an uploader is
// configured, publishes them. It always returns a notice describing the
// outcome.
func (c *Controller) Split(ctx context.Context, s State) (State, *Notice) {
	s.Written = nil
	grid, err := split.ParseGrid(s.RowsText, s.ColsText)
	if err != nil {
		return s, c.failure(err)
	}
	if strings.TrimSpace(s.OutputDir) == "" {
		return s, &Notice{Level: Error, Title: "Path error", Message: "No output directory selected"}
	}

	res, err := c.exporter.Export(s.ImagePath, s.OutputDir, grid)
	if err != nil {
		return s, c.failure(err)
	}
	s.Written = res.Files

	msg := fmt.Sprintf("Image split into %d tiles and saved to %s", len(res.Files), s.OutputDir)
	if c.uploader == nil {
		return s, &Notice{Level: Info, Title: "Done", Message: msg}
	}

	keys, err := c.uploader.Upload(ctx, res.Files)
	if err != nil {
		c.log.Error("upload failed", "uploaded", len(keys), "err", err)
		return s, &Notice{
			Level:   Error,
			Title:   "Upload error",
			Message: fmt.Sprintf("%s, but upload failed after %d files: %v", msg, len(keys), err),
		}
	}
	return s, &Notice{Level: Info, Title: "Done", Message: fmt.Sprintf("%s and uploaded %d objects", msg, len(keys))}
}

func (c *Controller) failure(err error) *Notice {
	c.log.Debug("split rejected", "err", err)
	switch {
	case errors.Is(err, split.ErrInvalidGridSpec):
		return &Notice{Level: Error, Title: "Input error", Message: "Rows and columns must be valid numbers: " + cause(err)}
	case errors.Is(err, split.ErrSourceNotFound):
		return &Notice{Level: Error, Title: "Path error", Message: "Image file does not exist"}
	default:
		return &Notice{Level: Error, Title: "Split error", Message: fmt.Sprintf("Error while splitting image: %v", err)}
	}
}

// cause drops the split.Error envelope so notices show what was wrong, not
// which step noticed it.
func cause(err error) string {
	var serr *split.Error
	if errors.As(err, &serr) && serr.Err != nil {
		return serr.Err.Error()
	}
	return err.Error()
}

// PreviewSummary describes the tile sizes the current grid produces at full
// resolution.
func PreviewSummary(s State) string {
	if !s.Loaded() {
		return "No image loaded"
	}
	grid := s.Grid()

	cols, err := split.Partition(s.Source.X, grid.Cols)
	if err != nil {
		return fmt.Sprintf("%dx%d image cannot hold %d columns", s.Source.X, s.Source.Y, grid.Cols)
	}
	rows, err := split.Partition(s.Source.Y, grid.Rows)
	if err != nil {
		return fmt.Sprintf("%dx%d image cannot hold %d rows", s.Source.X, s.Source.Y, grid.Rows)
	}

	return fmt.Sprintf("%dx%d image, %s grid, %d tiles\nwidths:  %s\nheights: %s",
		s.Source.X, s.Source.Y, grid, grid.Tiles(), lengths(cols), lengths(rows))
}

func lengths(ivs []split.Interval) string {
	parts := make([]string, len(ivs))
	for i, iv := range ivs {
		parts[i] = fmt.Sprint(iv.Len())
	}
	return strings.Join(parts, " ")
}
