package asciiportrait

import (
	"testing"
)

// fixedRand returns the same draws every time.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(n int) int   { return r.n % n }

func newEffectContext(w, h int, rng Rand) *effectContext {
	target := NewGrid(w, h)
	for i := range target.Cells {
		target.Cells[i] = Glyph(i % PaletteSize)
	}
	return &effectContext{
		current: NewGrid(w, h),
		target:  target,
		random:  NewGrid(w, h),
		rng:     rng,
	}
}

func TestRevealConverges(t *testing.T) {
	t.Parallel()

	for _, progress := range []float64{0.9, 0.95, 1} {
		e := newEffectContext(20, 10, NewRand(1))
		RandomFill(e.current, e.rng)
		revealEffect(e, progress)
		if !e.current.Equal(e.target) {
			t.Errorf("progress %v: current did not converge on target", progress)
		}
	}
}

func TestRevealKeepsPriorCells(t *testing.T) {
	t.Parallel()

	e := newEffectContext(8, 4, fixedRand{f: 0.5})
	e.current.Fill(MaxGlyph)
	revealEffect(e, 0.4)
	for i, c := range e.current.Cells {
		if c != MaxGlyph {
			t.Fatalf("cell %d changed to %d with draw above progress", i, c)
		}
	}
	revealEffect(e, 0.6)
	if !e.current.Equal(e.target) {
		t.Error("draw below progress should reveal every cell")
	}
}

func TestCycleRefillsEveryThirdFrame(t *testing.T) {
	t.Parallel()

	e := newEffectContext(8, 4, fixedRand{n: 4})
	cycleEffect(e, 0)
	for _, c := range e.current.Cells {
		if c != 4 {
			t.Fatalf("frame 0 should copy fresh noise, got %d", c)
		}
	}
	if !e.random.Equal(e.current) {
		t.Error("frame 0 should refill the random grid")
	}

	e.rng = fixedRand{n: 7}
	for _, frame := range []int{1, 2} {
		e.frame = frame
		cycleEffect(e, 0)
		if e.current.At(0, 0) != 4 {
			t.Errorf("frame %d should leave the grid alone", frame)
		}
	}
	e.frame = 3
	cycleEffect(e, 0)
	if e.current.At(0, 0) != 7 {
		t.Error("frame 3 should refill")
	}
}

func TestFormRevealsWithProgress(t *testing.T) {
	t.Parallel()

	e := newEffectContext(30, 30, fixedRand{f: 0.5, n: 8})
	e.frame = 1
	formEffect(e, 1)
	if !e.current.Equal(e.target) {
		t.Error("full progress should reveal every cell")
	}

	e = newEffectContext(30, 30, fixedRand{f: 0.5, n: 8})
	e.frame = 1
	formEffect(e, 0)
	if !e.current.IsBlank() {
		t.Error("zero progress off a reshuffle frame should leave cells alone")
	}
	e.frame = 5
	formEffect(e, 0)
	for _, c := range e.current.Cells {
		if c != 8 {
			t.Fatalf("reshuffle frame should randomise unrevealed cells, got %d", c)
		}
	}
}

func TestRefineStaysNearTarget(t *testing.T) {
	t.Parallel()

	e := newEffectContext(40, 40, NewRand(7))
	for i := 0; i < 10; i++ {
		refineEffect(e, 0)
		for j, c := range e.current.Cells {
			want := e.target.Cells[j]
			if c > MaxGlyph || int(c) < int(want)-1 || c > want {
				t.Fatalf("cell %d = %d, target %d", j, c, want)
			}
		}
	}
}

func TestGlitchIntensity(t *testing.T) {
	t.Parallel()

	if got := glitchIntensity(0); got != 0.5 {
		t.Errorf("glitchIntensity(0) = %v, want 0.5", got)
	}
	if got := glitchIntensity(0.05); got < 0.999 {
		t.Errorf("glitchIntensity(0.05) = %v, want peak", got)
	}
	if got := glitchIntensity(0.15); got > 1e-9 {
		t.Errorf("glitchIntensity(0.15) = %v, want trough", got)
	}

	e := newEffectContext(16, 16, NewRand(3))
	RandomFill(e.current, e.rng)
	glitchEffect(e, 0.15)
	if !e.current.Equal(e.target) {
		t.Error("glitch at a trough should show the target")
	}
}

func TestEffectsCoverEveryPhase(t *testing.T) {
	t.Parallel()

	for _, p := range DefaultSchedule {
		if _, ok := effects[p.Effect]; !ok {
			t.Errorf("no effect registered for %v", p.Effect)
		}
	}
}
