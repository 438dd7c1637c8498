package asciiportrait

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// GlyphAtlas holds a pre-rendered coverage mask for every palette glyph
// and the printable ASCII range, sized to one glyph cell.
type GlyphAtlas struct {
	masks      map[rune]*image.Alpha
	cellWidth  int
	cellHeight int
	name       string
}

// LoadGlyphAtlas rasterises the glyphs of the TrueType font at fontPath
// into cells of metrics m. An empty path uses the built-in 7x13 bitmap
// face.
func LoadGlyphAtlas(fontPath string, m Metrics) (*GlyphAtlas, error) {
	if fontPath == "" {
		return NewGlyphAtlas(basicfont.Face7x13, "basicfont-7x13", m), nil
	}
	ttf, err := loadFont(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", fontPath, err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    m.CellHeight,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	return NewGlyphAtlas(face, fontPath, m), nil
}

// loadFont loads a TrueType font from file
func loadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return freetype.ParseFont(fontBytes)
}

// NewGlyphAtlas renders the atlas glyphs from face.
func NewGlyphAtlas(face font.Face, name string, m Metrics) *GlyphAtlas {
	w, h := int(math.Ceil(m.CellWidth)), int(math.Ceil(m.CellHeight))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	a := &GlyphAtlas{
		masks:      make(map[rune]*image.Alpha),
		cellWidth:  w,
		cellHeight: h,
		name:       name,
	}
	for _, r := range Palette() {
		a.masks[r] = renderGlyphMask(face, r, w, h)
	}
	for r := rune(33); r <= rune(126); r++ {
		if _, ok := a.masks[r]; !ok {
			a.masks[r] = renderGlyphMask(face, r, w, h)
		}
	}
	return a
}

// renderGlyphMask draws r centred horizontally in a w x h alpha image.
// The baseline is placed from the face ascent and descent so descenders
// stay inside the cell.
func renderGlyphMask(face font.Face, r rune, w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if r == ' ' {
		return mask
	}

	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	baseline := (h + ascent - descent) / 2

	x := 0
	if adv, ok := face.GlyphAdvance(r); ok {
		x = (w - adv.Round()) / 2
		if x < 0 {
			x = 0
		}
	}

	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(string(r))
	return mask
}

// Name returns the font the atlas was built from.
func (a *GlyphAtlas) Name() string { return a.name }

// CellSize returns the mask size in pixels.
func (a *GlyphAtlas) CellSize() (w, h int) { return a.cellWidth, a.cellHeight }

// Mask returns the coverage mask of r.
func (a *GlyphAtlas) Mask(r rune) (*image.Alpha, bool) {
	m, ok := a.masks[r]
	return m, ok
}

// Draw composites r in colour c onto dst with the cell's top-left corner
// at (x, y). Runes outside the atlas are skipped.
func (a *GlyphAtlas) Draw(dst draw.Image, x, y int, r rune, c color.Color) {
	mask, ok := a.masks[r]
	if !ok {
		return
	}
	rect := image.Rect(x, y, x+a.cellWidth, y+a.cellHeight)
	draw.DrawMask(dst, rect, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// Coverage returns the fraction of the cell r covers, in [0, 1].
func (a *GlyphAtlas) Coverage(r rune) float64 {
	mask, ok := a.masks[r]
	if !ok || len(mask.Pix) == 0 {
		return 0
	}
	var sum int
	for _, v := range mask.Pix {
		sum += int(v)
	}
	return float64(sum) / float64(len(mask.Pix)*255)
}
