package asciiportrait

import "math/rand/v2"

// Rand is the random source consumed by the phase effects. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// NewRand returns a PCG source seeded with seed. Two sources built from
// the same seed yield the same sequence.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomGlyph draws a uniformly distributed palette glyph.
func RandomGlyph(rng Rand) Glyph {
	return Glyph(rng.IntN(PaletteSize))
}

// RandomFill overwrites every cell of g with an independent uniform draw.
func RandomFill(g *Grid, rng Rand) {
	for i := range g.Cells {
		g.Cells[i] = RandomGlyph(rng)
	}
}
