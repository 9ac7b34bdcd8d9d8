package preview

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhantomInTheWire/image-grid-splitter/pkg/split"
)

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 > 200 && g>>8 < 60 && b>>8 < 60
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 > 240 && g>>8 > 240 && b>>8 > 240
}

func TestRender_DrawsInteriorCuts(t *testing.T) {
	thumb := imaging.New(100, 60, color.White)
	out := NewRenderer().Render(thumb, split.Grid{Rows: 2, Cols: 4})

	require.Equal(t, thumb.Bounds(), out.Bounds())

	// column cuts at 25, 50, 75 span the full height
	for _, x := range []int{25, 50, 75} {
		assert.True(t, isRed(out.At(x, 0)), "top of column cut %d", x)
		assert.True(t, isRed(out.At(x, 15)), "column cut %d", x)
		assert.True(t, isRed(out.At(x, 59)), "bottom of column cut %d", x)
	}
	// row cut at 30 spans the full width
	assert.True(t, isRed(out.At(0, 30)))
	assert.True(t, isRed(out.At(10, 30)))
	assert.True(t, isRed(out.At(99, 30)))

	// cell interiors untouched
	assert.True(t, isWhite(out.At(10, 10)))
	assert.True(t, isWhite(out.At(60, 45)))
}

func TestRender_NoLinesAtEdges(t *testing.T) {
	thumb := imaging.New(30, 30, color.White)
	out := NewRenderer().Render(thumb, split.Grid{Rows: 3, Cols: 3})

	for _, p := range []image.Point{{0, 5}, {29, 5}, {5, 0}, {5, 29}} {
		assert.True(t, isWhite(out.At(p.X, p.Y)), "edge pixel %v", p)
	}
}

func TestRender_UsesPartitionBoundaries(t *testing.T) {
	// 11 px in 4 columns is cut at 2, 4 and 6; the last column takes the rest
	thumb := imaging.New(11, 4, color.White)
	r := &Renderer{LineWidth: 1, LineColor: "#ff0000"}
	out := r.Render(thumb, split.Grid{Rows: 1, Cols: 4})

	for _, x := range []int{2, 4, 6} {
		assert.True(t, isRed(out.At(x, 1)), "cut at %d", x)
	}
	for _, x := range []int{1, 3, 5, 8} {
		assert.True(t, isWhite(out.At(x, 1)), "no cut at %d", x)
	}
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	thumb := imaging.New(40, 40, color.White)
	_ = NewRenderer().Render(thumb, split.Grid{Rows: 2, Cols: 2})

	assert.True(t, isWhite(thumb.At(20, 20)))
	assert.True(t, isWhite(thumb.At(19, 10)))
}

func TestRenderText_InvalidInputFallsBack(t *testing.T) {
	thumb := imaging.New(40, 40, color.White)

	for _, in := range [][2]string{{"abc", "2"}, {"", ""}, {"0", "2"}, {"2", "-1"}} {
		out := NewRenderer().RenderText(thumb, in[0], in[1])
		assert.True(t, isWhite(out.At(20, 10)), "rows=%q cols=%q", in[0], in[1])
		assert.True(t, isWhite(out.At(10, 20)), "rows=%q cols=%q", in[0], in[1])
	}
}

func TestRender_TooManyCutsForAxis(t *testing.T) {
	thumb := imaging.New(4, 40, color.White)
	out := NewRenderer().Render(thumb, split.Grid{Rows: 2, Cols: 9})

	// columns skipped, rows still drawn
	assert.True(t, isWhite(out.At(2, 5)))
	assert.True(t, isRed(out.At(2, 20)))
}

func TestRender_CustomColor(t *testing.T) {
	thumb := imaging.New(20, 20, color.White)
	out := (&Renderer{LineWidth: 2, LineColor: "#0000ff"}).Render(thumb, split.Grid{Rows: 1, Cols: 2})

	r, g, b, _ := out.At(10, 10).RGBA()
	assert.Greater(t, b>>8, uint32(200))
	assert.Less(t, r>>8, uint32(60))
	assert.Less(t, g>>8, uint32(60))
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		want image.Point
	}{
		{"wide image limited by width", 800, 200, image.Pt(400, 100)},
		{"tall image limited by height", 300, 600, image.Pt(150, 300)},
		{"small image kept", 120, 80, image.Pt(120, 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Thumbnail(imaging.New(tt.w, tt.h, color.Black), DefaultMaxWidth, DefaultMaxHeight)
			assert.Equal(t, tt.want, got.Bounds().Size())
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.png")
	out := NewRenderer().Render(imaging.New(20, 20, color.White), split.Grid{Rows: 2, Cols: 2})
	require.NoError(t, Save(out, path))

	back, err := imaging.Open(path)
	require.NoError(t, err)
	assert.True(t, isRed(back.At(10, 3)))
}
