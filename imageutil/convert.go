package imageutil

// ToBrightness returns the per-pixel channel average of img as rows of
// values in [0, 255]. The result is indexed [y][x].
func ToBrightness(img *RGBAImage) [][]uint8 {
	width, height := img.Width(), img.Height()
	out := make([][]uint8, height)
	for y := 0; y < height; y++ {
		row := make([]uint8, width)
		for x := 0; x < width; x++ {
			row[x] = img.GetRGB(x, y).Brightness()
		}
		out[y] = row
	}
	return out
}
