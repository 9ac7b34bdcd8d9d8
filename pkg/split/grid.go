package split

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Grid is the number of rows and columns an image is cut into.
type Grid struct {
	Rows int
	Cols int
}

// Identity is the 1x1 grid: the whole image, no cuts.
var Identity = Grid{Rows: 1, Cols: 1}

// Cell is one grid cell. Row and Col are 1-based.
type Cell struct {
	Row, Col int
	Rect     image.Rectangle
}

func (g Grid) String() string { return fmt.Sprintf("%dx%d", g.Rows, g.Cols) }

// Tiles returns the number of tiles the grid produces.
func (g Grid) Tiles() int { return g.Rows * g.Cols }

// Validate reports whether both counts are at least 1.
func (g Grid) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return newError("validate grid", ErrInvalidGridSpec, "", fmt.Errorf("rows and cols must be positive, got %s", g))
	}
	return nil
}

// Cells enumerates the grid cells over bounds in row-major order. The whole
// slice is allocated up front; use EachCell to visit large grids.
func (g Grid) Cells(bounds image.Rectangle) ([]Cell, error) {
	rows, cols, err := g.Axes(bounds)
	if err != nil {
		return nil, err
	}
	cells := make([]Cell, 0, len(rows)*len(cols))
	_ = eachCell(rows, cols, bounds.Min, func(c Cell) error {
		cells = append(cells, c)
		return nil
	})
	return cells, nil
}

// Axes partitions the height of bounds into g.Rows intervals and its width
// into g.Cols intervals.
func (g Grid) Axes(bounds image.Rectangle) (rows, cols []Interval, err error) {
	if err := g.Validate(); err != nil {
		return nil, nil, err
	}
	cols, err = Partition(bounds.Dx(), g.Cols)
	if err != nil {
		return nil, nil, fmt.Errorf("columns of %dx%d image: %w", bounds.Dx(), bounds.Dy(), err)
	}
	rows, err = Partition(bounds.Dy(), g.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("rows of %dx%d image: %w", bounds.Dx(), bounds.Dy(), err)
	}
	return rows, cols, nil
}

// EachCell calls fn for every cell over bounds in row-major order without
// holding more than one cell at a time. It stops at the first error fn
// returns and passes it back.
func (g Grid) EachCell(bounds image.Rectangle, fn func(Cell) error) error {
	rows, cols, err := g.Axes(bounds)
	if err != nil {
		return err
	}
	return eachCell(rows, cols, bounds.Min, fn)
}

func eachCell(rows, cols []Interval, origin image.Point, fn func(Cell) error) error {
	for r, ry := range rows {
		for c, cx := range cols {
			rect := image.Rect(cx.Start, ry.Start, cx.End, ry.End).Add(origin)
			if err := fn(Cell{Row: r + 1, Col: c + 1, Rect: rect}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseGrid parses the free-text rows and cols fields.
func ParseGrid(rows, cols string) (Grid, error) {
	r, err := parseCount("rows", rows)
	if err != nil {
		return Grid{}, err
	}
	c, err := parseCount("cols", cols)
	if err != nil {
		return Grid{}, err
	}
	return Grid{Rows: r, Cols: c}, nil
}

// PreviewGrid is ParseGrid for the preview path: anything unparsable
// becomes the Identity grid.
func PreviewGrid(rows, cols string) Grid {
	g, err := ParseGrid(rows, cols)
	if err != nil {
		return Identity
	}
	return g
}

func parseCount(field, text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, newError("parse grid", ErrInvalidGridSpec, "", fmt.Errorf("%s %q is not a number", field, text))
	}
	if n < 1 {
		return 0, newError("parse grid", ErrInvalidGridSpec, "", fmt.Errorf("%s must be at least 1, got %d", field, n))
	}
	return n, nil
}
