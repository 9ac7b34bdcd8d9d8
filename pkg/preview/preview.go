// Package preview draws the cut lines of a grid over a downscaled copy of the
// source so the user can see where tiles will be split before exporting.
package preview

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
)

const (
	DefaultMaxWidth  = 400
	DefaultMaxHeight = 300
	DefaultLineWidth = 2.0
	DefaultLineColor = "#ff0000"
)

// Thumbnail scales img down to fit in maxW x maxH keeping its aspect ratio.
// Images that already fit are copied at their original size.
func Thumbnail(img image.Image, maxW, maxH int) *image.NRGBA {
	return imaging.Fit(img, maxW, maxH, imaging.Lanczos)
}

// Renderer draws grid lines. The zero value is not usable, use NewRenderer.
type Renderer struct {
	LineWidth float64
	LineColor string // hex, e.g. "#ff0000"
}

func NewRenderer() *Renderer {
	return &Renderer{LineWidth: DefaultLineWidth, LineColor: DefaultLineColor}
}

// Render returns a copy of thumb with a line at every interior row and
// column boundary of grid. Outer edges are not drawn. An axis with more cuts
// than pixels gets no lines.
func (r *Renderer) Render(thumb image.Image, grid split.Grid) image.Image {
	if thumb.Bounds().Min != (image.Point{}) {
		thumb = imaging.Clone(thumb)
	}
	w, h := thumb.Bounds().Dx(), thumb.Bounds().Dy()

	dc := gg.NewContextForImage(thumb)
	dc.SetHexColor(r.LineColor)
	dc.SetLineWidth(r.LineWidth)
	dc.SetLineCapButt()

	// odd widths sit on pixel centres to stay crisp
	var nudge float64
	if math.Mod(r.LineWidth, 2) == 1 {
		nudge = 0.5
	}

	for _, x := range cuts(w, grid.Cols) {
		fx := float64(x) + nudge
		dc.DrawLine(fx, 0, fx, float64(h))
	}
	for _, y := range cuts(h, grid.Rows) {
		fy := float64(y) + nudge
		dc.DrawLine(0, fy, float64(w), fy)
	}
	dc.Stroke()

	return dc.Image()
}

// RenderText renders from the raw rows and cols fields. Anything that does
// not parse renders as a 1x1 grid, i.e. an unmarked copy.
func (r *Renderer) RenderText(thumb image.Image, rows, cols string) image.Image {
	return r.Render(thumb, split.PreviewGrid(rows, cols))
}

func cuts(length, count int) []int {
	ivs, err := split.Partition(length, count)
	if err != nil {
		return nil
	}
	return split.Boundaries(ivs)
}

// Save writes img to path, format chosen by extension.
func Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}
