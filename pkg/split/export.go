package split

import (
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/logger"
)

// DefaultQuality is the JPEG quality used for tiles unless overridden.
const DefaultQuality = 75

// TileExt is the extension of every written tile.
const TileExt = ".jpg"

// Exporter crops a source image into grid tiles and writes them as JPEG.
type Exporter struct {
	quality int
	log     *log.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithQuality sets the JPEG quality (1-100). Out of range values are ignored.
func WithQuality(q int) Option {
	return func(e *Exporter) {
		if q >= 1 && q <= 100 {
			e.quality = q
		}
	}
}

// WithLogger replaces the exporter's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.log = l
		}
	}
}

func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{quality: DefaultQuality}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.New("split")
	}
	return e
}

// Quality returns the JPEG quality tiles are encoded with.
func (e *Exporter) Quality() int { return e.quality }

// Result lists what an export wrote.
type Result struct {
	Files []string // tile paths in row-major order
	Grid  Grid
	Size  image.Point // full resolution source size
}

// ExportText parses the rows and cols text fields and exports. A bad grid
// is reported before the filesystem is touched.
func (e *Exporter) ExportText(srcPath, outDir, rows, cols string) (*Result, error) {
	grid, err := ParseGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	return e.Export(srcPath, outDir, grid)
}

// Export splits the image at srcPath into grid.Rows x grid.Cols tiles and
// writes them to outDir as {base}_{row}_{col}.jpg, replacing existing files.
// outDir is created if missing.
//
// All preconditions are checked before the first write. A failure while
// writing aborts the remaining tiles; tiles written before it stay on disk.
func (e *Exporter) Export(srcPath, outDir string, grid Grid) (*Result, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(srcPath); err != nil {
		return nil, newError("export", ErrSourceNotFound, srcPath, err)
	}

	src, err := imaging.Open(srcPath)
	if err != nil {
		return nil, newError("export", ErrImageDecode, srcPath, err)
	}

	rows, cols, err := grid.Axes(src.Bounds())
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, newError("export", ErrOutputDirUnwritable, outDir, err)
	}

	e.log.Debug("exporting", "src", srcPath, "size", src.Bounds().Size(), "grid", grid, "dir", outDir)

	res := &Result{Grid: grid, Size: src.Bounds().Size()}
	err = eachCell(rows, cols, src.Bounds().Min, func(cell Cell) error {
		path := filepath.Join(outDir, TileName(srcPath, cell.Row, cell.Col))
		if err := e.writeTile(path, Flatten(crop(src, cell.Rect))); err != nil {
			e.log.Error("tile failed", "row", cell.Row, "col", cell.Col, "written", len(res.Files), "err", err)
			return err
		}
		e.log.Debug("tile written", "path", path, "rect", cell.Rect)
		res.Files = append(res.Files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("split complete", "tiles", len(res.Files), "dir", outDir)
	return res, nil
}

func (e *Exporter) writeTile(path string, tile image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return newError("write tile", ErrOutputDirUnwritable, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = newError("write tile", ErrOutputDirUnwritable, path, cerr)
		}
	}()

	if err := imaging.Encode(f, tile, imaging.JPEG, imaging.JPEGQuality(e.quality)); err != nil {
		return newError("encode tile", ErrOutputDirUnwritable, path, err)
	}
	return nil
}

// TileName builds the file name of the tile at 1-based (row, col) for the
// source at srcPath: the source base name without its extension, then
// _{row}_{col}.jpg.
func TileName(srcPath string, row, col int) string {
	return BaseName(srcPath) + "_" + strconv.Itoa(row) + "_" + strconv.Itoa(col) + TileExt
}

// BaseName returns the file name of path without its last extension. Leading
// dots do not start an extension, so ".hidden" stays ".hidden".
func BaseName(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == "" || strings.Trim(strings.TrimSuffix(name, ext), ".") == "" {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
