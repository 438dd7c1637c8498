package asciiportrait

import "math"

const (
	cycleEvery     = 3    // phase 1 regenerates noise on every 3rd frame
	reshuffleEvery = 5    // phase 2 re-randomises unrevealed cells every 5th frame
	noiseFrequency = 0.1  // spatial frequency of the formation bias
	noiseWeight    = 0.3  // how far the bias shifts the reveal threshold
	settleChance   = 0.95 // phase 3 probability of showing the target glyph
	glitchScale    = 0.7  // phase 4 peak probability of a noise cell
	glitchCycles   = 10   // phase 4 angular frequency, in multiples of pi
	convergeAt     = 0.9  // phase 5 progress after which every cell is final
)

// effectContext is the state a phase effect may read and write. Only
// current and random are mutated.
type effectContext struct {
	current *Grid
	target  *Grid
	random  *Grid
	frame   int
	rng     Rand
}

// effectFunc mutates the current grid for one frame at the given phase
// progress.
type effectFunc func(e *effectContext, progress float64)

var effects = map[Effect]effectFunc{
	EffectCycle:  cycleEffect,
	EffectForm:   formEffect,
	EffectRefine: refineEffect,
	EffectGlitch: glitchEffect,
	EffectReveal: revealEffect,
}

// cycleEffect flickers whole-grid noise regardless of progress.
func cycleEffect(e *effectContext, _ float64) {
	if e.frame%cycleEvery != 0 {
		return
	}
	RandomFill(e.random, e.rng)
	e.current.CopyFrom(e.random)
}

// formationNoise returns a smooth bias in [0, 1] for cell (x, y).
func formationNoise(x, y int) float64 {
	return (math.Sin(float64(x)*noiseFrequency)+math.Cos(float64(y)*noiseFrequency))*0.5 + 0.5
}

// formEffect reveals target glyphs with a spatially biased probability
// that grows with progress.
func formEffect(e *effectContext, progress float64) {
	reshuffle := e.frame%reshuffleEvery == 0
	for y := 0; y < e.current.Height; y++ {
		for x := 0; x < e.current.Width; x++ {
			threshold := progress + (formationNoise(x, y)-0.5)*noiseWeight
			if e.rng.Float64() < threshold {
				e.current.Set(x, y, e.target.At(x, y))
			} else if reshuffle {
				e.current.Set(x, y, RandomGlyph(e.rng))
			}
		}
	}
}

// refineEffect settles on the target with rare one-level jitter.
func refineEffect(e *effectContext, _ float64) {
	for y := 0; y < e.current.Height; y++ {
		for x := 0; x < e.current.Width; x++ {
			want := e.target.At(x, y)
			if e.rng.Float64() < settleChance {
				e.current.Set(x, y, want)
				continue
			}
			jitter := (e.rng.Float64() - 0.5) * 2
			level := math.Floor(math.Max(0, math.Min(float64(MaxGlyph), float64(want)+jitter)))
			e.current.Set(x, y, Glyph(level))
		}
	}
}

// glitchIntensity oscillates in [0, 1], completing five sine periods
// across the phase.
func glitchIntensity(progress float64) float64 {
	return math.Sin(progress*math.Pi*glitchCycles)*0.5 + 0.5
}

// glitchEffect bursts random glyphs over the settled image.
func glitchEffect(e *effectContext, progress float64) {
	chance := glitchIntensity(progress) * glitchScale
	for i := range e.current.Cells {
		if e.rng.Float64() < chance {
			e.current.Cells[i] = RandomGlyph(e.rng)
		} else {
			e.current.Cells[i] = e.target.Cells[i]
		}
	}
}

// revealEffect converges on the target; past convergeAt every cell is
// forced to its final glyph.
func revealEffect(e *effectContext, progress float64) {
	if progress >= convergeAt {
		e.current.CopyFrom(e.target)
		return
	}
	for i := range e.current.Cells {
		if e.rng.Float64() < progress {
			e.current.Cells[i] = e.target.Cells[i]
		}
	}
}
