package imageutil

// PrepareForGlyphs scales img to exactly one pixel per glyph cell.
//
// The source is first converted to an opaque RGBA image, then resized to
// width x height with area-style interpolation. When sharpen is set a
// mild sharpening pass is applied after the resize, which keeps facial
// contours visible at the small cell counts a portrait usually uses.
func PrepareForGlyphs(img *RGBAImage, width, height int, sharpen bool) *RGBAImage {
	resized := Resize(img, width, height, InterpolationArea)
	if sharpen {
		resized = Sharpen(resized)
	}
	return resized
}
