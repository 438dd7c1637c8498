package imageutil

import (
	"image"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea averages every source pixel covered by a
	// destination pixel, like OpenCV's INTER_AREA. Uniform regions keep
	// their exact value, which the glyph mapping depends on at the
	// palette extremes.
	InterpolationArea Interpolation = iota

	// InterpolationCatmullRom uses the Catmull-Rom kernel.
	InterpolationCatmullRom

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	if interp == InterpolationArea {
		return resizeArea(img, width, height)
	}
	dst := NewRGBAImage(width, height)
	interp.scaler().Scale(dst.RGBA, image.Rect(0, 0, width, height),
		img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// resizeArea box-filters img into width x height. Every destination pixel
// covers at least one source pixel, so upscaling degrades to nearest
// neighbour.
func resizeArea(img *RGBAImage, width, height int) *RGBAImage {
	dst := NewRGBAImage(width, height)
	srcW, srcH := img.Width(), img.Height()
	if srcW == 0 || srcH == 0 {
		return dst
	}

	for y := 0; y < height; y++ {
		y0, y1 := span(y, height, srcH)
		for x := 0; x < width; x++ {
			x0, x1 := span(x, width, srcW)
			var sumR, sumG, sumB, n int
			for sy := y0; sy < y1; sy++ {
				for sx := x0; sx < x1; sx++ {
					c := img.RGBAAt(sx, sy)
					sumR += int(c.R)
					sumG += int(c.G)
					sumB += int(c.B)
					n++
				}
			}
			dst.SetRGB(x, y, RGB{
				R: uint8((sumR + n/2) / n),
				G: uint8((sumG + n/2) / n),
				B: uint8((sumB + n/2) / n),
			})
		}
	}
	return dst
}

// span maps destination index i of n onto a half-open source range of
// size total.
func span(i, n, total int) (lo, hi int) {
	lo = i * total / n
	hi = (i + 1) * total / n
	if hi <= lo {
		hi = lo + 1
	}
	if hi > total {
		hi = total
		lo = min(lo, total-1)
	}
	return lo, hi
}
