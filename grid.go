package asciiportrait

import "strings"

// Grid is a rows x cols matrix of glyphs stored row-major.
type Grid struct {
	Width  int
	Height int
	Cells  []Glyph
}

// NewGrid returns a grid of blank glyphs.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Glyph, width*height),
	}
}

// At returns the glyph at column x, row y.
func (g *Grid) At(x, y int) Glyph {
	return g.Cells[y*g.Width+x]
}

// Set stores glyph v at column x, row y.
func (g *Grid) Set(x, y int, v Glyph) {
	g.Cells[y*g.Width+x] = v
}

// Fill sets every cell to v.
func (g *Grid) Fill(v Glyph) {
	for i := range g.Cells {
		g.Cells[i] = v
	}
}

// CopyFrom overwrites g with the contents of src. Both grids must share
// dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	copy(g.Cells, src.Cells)
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.Width, g.Height)
	c.CopyFrom(g)
	return c
}

// SameSize reports whether g and o have identical dimensions.
func (g *Grid) SameSize(o *Grid) bool {
	return g.Width == o.Width && g.Height == o.Height
}

// Equal reports whether g and o hold the same glyphs.
func (g *Grid) Equal(o *Grid) bool {
	if !g.SameSize(o) {
		return false
	}
	for i, c := range g.Cells {
		if o.Cells[i] != c {
			return false
		}
	}
	return true
}

// IsBlank reports whether every cell is the blank glyph.
func (g *Grid) IsBlank() bool {
	for _, c := range g.Cells {
		if c != Blank {
			return false
		}
	}
	return true
}

// Lines renders the grid as one string per row.
func (g *Grid) Lines() []string {
	lines := make([]string, g.Height)
	var sb strings.Builder
	for y := 0; y < g.Height; y++ {
		sb.Reset()
		for x := 0; x < g.Width; x++ {
			sb.WriteRune(g.At(x, y).Rune())
		}
		lines[y] = sb.String()
	}
	return lines
}

// String renders the grid as newline separated rows.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}
