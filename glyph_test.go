package asciiportrait

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBrightnessToGlyph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		b    uint8
		want rune
	}{
		{0, '@'},
		{31, '@'},
		{32, '#'},
		{128, '='},
		{224, '.'},
		{254, '.'},
		{255, ' '},
	}
	for _, tt := range tests {
		if got := BrightnessToGlyph(tt.b).Rune(); got != tt.want {
			t.Errorf("BrightnessToGlyph(%d) = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestBrightnessToGlyphMonotonic(t *testing.T) {
	t.Parallel()

	prev := BrightnessToGlyph(0)
	for b := 0; b <= 255; b++ {
		g := BrightnessToGlyph(uint8(b))
		if g > MaxGlyph {
			t.Fatalf("brightness %d mapped outside the palette: %d", b, g)
		}
		if g > prev {
			t.Fatalf("brightness %d mapped denser (%d) than %d (%d)", b, g, b-1, prev)
		}
		prev = g
	}
}

func TestPalette(t *testing.T) {
	t.Parallel()

	want := []rune{' ', '.', ':', '-', '=', '+', '*', '#', '@'}
	if diff := cmp.Diff(want, Palette()); diff != "" {
		t.Errorf("Palette() mismatch (-want +got):\n%s", diff)
	}
	if PaletteSize != 9 {
		t.Errorf("PaletteSize = %d, want 9", PaletteSize)
	}
	if Glyph(200).Rune() != '@' {
		t.Errorf("out of range glyph should clamp to the densest rune")
	}
	if !Blank.IsBlank() || MaxGlyph.IsBlank() {
		t.Error("only glyph 0 should be blank")
	}
}

func TestGlyphForRune(t *testing.T) {
	t.Parallel()

	for i, r := range Palette() {
		g, ok := GlyphForRune(r)
		if !ok || g != Glyph(i) {
			t.Errorf("GlyphForRune(%q) = %d, %v; want %d, true", r, g, ok, i)
		}
	}
	if _, ok := GlyphForRune('x'); ok {
		t.Error("'x' is not in the palette")
	}
}

func TestGrid(t *testing.T) {
	t.Parallel()

	g := NewGrid(4, 2)
	if !g.IsBlank() {
		t.Fatal("new grid should be blank")
	}
	g.Set(3, 1, MaxGlyph)
	if g.At(3, 1) != MaxGlyph {
		t.Errorf("At(3,1) = %d, want %d", g.At(3, 1), MaxGlyph)
	}
	if diff := cmp.Diff([]string{"    ", "   @"}, g.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if g.String() != "    \n   @" {
		t.Errorf("String() = %q", g.String())
	}

	c := g.Clone()
	if !c.Equal(g) {
		t.Fatal("clone should equal the original")
	}
	c.Set(0, 0, 3)
	if g.At(0, 0) != Blank {
		t.Error("modifying the clone changed the original")
	}
	if c.Equal(g) {
		t.Error("grids with different cells compared equal")
	}
	if NewGrid(2, 4).Equal(NewGrid(4, 2)) {
		t.Error("grids with different shapes compared equal")
	}

	g.Fill(2)
	for _, cell := range g.Cells {
		if cell != 2 {
			t.Fatalf("Fill left cell %d", cell)
		}
	}
}

func TestRandomFillDeterministic(t *testing.T) {
	t.Parallel()

	a, b := NewGrid(16, 8), NewGrid(16, 8)
	RandomFill(a, NewRand(42))
	RandomFill(b, NewRand(42))
	if !a.Equal(b) {
		t.Error("same seed produced different grids")
	}

	seen := make(map[Glyph]bool)
	for _, c := range a.Cells {
		if c > MaxGlyph {
			t.Fatalf("random glyph %d outside palette", c)
		}
		seen[c] = true
	}
	if len(seen) < 5 {
		t.Errorf("random fill used only %d distinct glyphs", len(seen))
	}
}
