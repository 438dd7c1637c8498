package asciiportrait

import (
	"image"

	"github.com/wbrown/asciiportrait/imageutil"
)

// PixelGrid holds the sampled brightness of every glyph cell, indexed
// [row][col]. It is computed once per image and never modified.
type PixelGrid [][]uint8

// NewPixelGrid samples img down to width x height cells. Each cell's
// brightness is the average of its R, G and B channels after the image
// has been box-filtered to one pixel per cell.
func NewPixelGrid(img image.Image, width, height int, sharpen bool) PixelGrid {
	src, ok := img.(*imageutil.RGBAImage)
	if !ok {
		src = imageutil.RGBAImageFromImage(img)
	}
	scaled := imageutil.PrepareForGlyphs(src, width, height, sharpen)
	return PixelGrid(imageutil.ToBrightness(scaled))
}

// TargetFromPixels maps every sampled brightness to its glyph.
func TargetFromPixels(pixels PixelGrid) *Grid {
	height := len(pixels)
	width := 0
	if height > 0 {
		width = len(pixels[0])
	}
	target := NewGrid(width, height)
	for y, row := range pixels {
		for x, b := range row {
			target.Set(x, y, BrightnessToGlyph(b))
		}
	}
	return target
}
