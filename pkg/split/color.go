package split

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Flatten returns an opaque copy of img suitable for JPEG. 8-bit grayscale
// images are returned as-is and 16-bit grayscale is narrowed to 8-bit, since
// image/jpeg only writes single-channel output for *image.Gray. Everything
// else becomes NRGBA with the straight RGB samples kept and alpha forced to
// 255; transparent pixels are not blended against any background.
func Flatten(img image.Image) image.Image {
	switch g := img.(type) {
	case *image.Gray:
		return g
	case *image.Gray16:
		b := g.Bounds()
		dst := image.NewGray(b)
		draw.Draw(dst, b, g, b.Min, draw.Src)
		return dst
	}
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

func isGray(img image.Image) bool {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	}
	return false
}

type subImager interface {
	image.Image
	SubImage(r image.Rectangle) image.Image
}

// crop cuts rect out of src. Grayscale sources keep their pixel type so the
// tile is encoded single-channel; everything else goes through imaging.Crop.
func crop(src image.Image, rect image.Rectangle) image.Image {
	if isGray(src) {
		if s, ok := src.(subImager); ok {
			return s.SubImage(rect)
		}
	}
	return imaging.Crop(src, rect)
}
