package asciiportrait

// Glyph is an index into Palette. Index 0 is the blank, lightest glyph and
// index MaxGlyph the densest.
type Glyph uint8

const (
	// Blank is the glyph every cell of a freshly reset grid holds.
	Blank Glyph = 0

	// MaxGlyph is the densest glyph index.
	MaxGlyph Glyph = Glyph(len(palette) - 1)
)

// palette is ordered from lightest to darkest.
const palette = " .:-=+*#@"

// PaletteSize is the number of glyphs in the palette.
const PaletteSize = len(palette)

// Rune returns the character drawn for g. Out of range indices are clamped
// to the densest glyph.
func (g Glyph) Rune() rune {
	if g > MaxGlyph {
		g = MaxGlyph
	}
	return rune(palette[g])
}

// IsBlank reports whether g draws nothing.
func (g Glyph) IsBlank() bool {
	return g == Blank
}

// Palette returns the palette runes from lightest to darkest.
func Palette() []rune {
	return []rune(palette)
}

// GlyphForRune returns the palette glyph for r and whether r belongs to
// the palette.
func GlyphForRune(r rune) (Glyph, bool) {
	for i, p := range palette {
		if p == r {
			return Glyph(i), true
		}
	}
	return Blank, false
}

// BrightnessToGlyph maps a brightness in [0, 255] to a glyph. Brighter
// values select sparser glyphs: the density level floor(b/255*8) is
// inverted so that pure white maps to Blank and pure black to MaxGlyph.
func BrightnessToGlyph(b uint8) Glyph {
	level := int(float64(b) / 255 * float64(MaxGlyph))
	level = clampLevel(level)
	return MaxGlyph - Glyph(level)
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > int(MaxGlyph) {
		return int(MaxGlyph)
	}
	return level
}
