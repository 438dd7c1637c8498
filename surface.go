package asciiportrait

import "math"

const (
	// CellWidthFactor and CellHeightFactor scale the font size into the
	// size of one glyph cell.
	CellWidthFactor  = 0.6
	CellHeightFactor = 1.0

	// DefaultFontSize is the font size used when none is configured.
	DefaultFontSize = 12
)

// Metrics is the size of one glyph cell in surface units.
type Metrics struct {
	CellWidth  float64
	CellHeight float64
}

// NewMetrics derives cell metrics from a font size.
func NewMetrics(fontSize float64) Metrics {
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return Metrics{
		CellWidth:  fontSize * CellWidthFactor,
		CellHeight: fontSize * CellHeightFactor,
	}
}

// Origin returns the top-left corner of cell (col, row).
func (m Metrics) Origin(col, row int) (x, y float64) {
	return float64(col) * m.CellWidth, float64(row) * m.CellHeight
}

// Cell maps a surface position back to the cell containing it.
func (m Metrics) Cell(x, y float64) (col, row int) {
	return int(math.Round(x / m.CellWidth)), int(math.Round(y / m.CellHeight))
}

// Size returns the surface extent needed for a cols x rows grid, rounded
// up to whole units.
func (m Metrics) Size(cols, rows int) (width, height int) {
	return int(math.Ceil(float64(cols) * m.CellWidth)),
		int(math.Ceil(float64(rows) * m.CellHeight))
}

// Surface is the drawing target of the frame renderer. Coordinates are the
// top-left corner of a glyph cell in surface units.
type Surface interface {
	// Clear wipes the surface to its background.
	Clear()
	// DrawGlyph draws r with its cell's top-left corner at (x, y).
	DrawGlyph(x, y float64, r rune)
	// DrawText draws a static message, used for the fallback display.
	DrawText(text string)
	// Present makes the frame drawn since the last Clear visible.
	Present() error
}

// renderFrame clears s and draws every non-blank glyph of g.
func renderFrame(s Surface, g *Grid, m Metrics) error {
	s.Clear()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			glyph := g.At(x, y)
			if glyph.IsBlank() {
				continue
			}
			px, py := m.Origin(x, y)
			s.DrawGlyph(px, py, glyph.Rune())
		}
	}
	return s.Present()
}

// renderFallback replaces the surface contents with text.
func renderFallback(s Surface, text string) error {
	s.Clear()
	s.DrawText(text)
	return s.Present()
}
