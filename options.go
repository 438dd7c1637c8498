package asciiportrait

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultWidth and DefaultHeight are the grid size in cells.
	DefaultWidth  = 80
	DefaultHeight = 60

	// DefaultLoopDelay is the pause between a completed reveal and the
	// next one when looping.
	DefaultLoopDelay = 3 * time.Second

	// DefaultFallbackText is drawn when the source image cannot be loaded.
	DefaultFallbackText = "[ portrait unavailable ]"
)

// Option is a functional option for configuring an Animator.
type Option func(*Animator)

// WithSize sets the grid size in cells.
func WithSize(width, height int) Option {
	return func(a *Animator) {
		a.width = width
		a.height = height
	}
}

// WithFontSize sets the font size the cell metrics derive from.
func WithFontSize(size float64) Option {
	return func(a *Animator) {
		a.fontSize = size
	}
}

// WithFontFamily records the font family or TrueType path. Surfaces that
// rasterise glyphs read it through Animator.FontFamily.
func WithFontFamily(family string) Option {
	return func(a *Animator) {
		a.fontFamily = family
	}
}

// WithAutoStart controls whether SetImage starts the animation.
func WithAutoStart(auto bool) Option {
	return func(a *Animator) {
		a.autoStart = auto
	}
}

// WithLoop controls whether a completed reveal restarts after the loop
// delay.
func WithLoop(loop bool) Option {
	return func(a *Animator) {
		a.loop = loop
	}
}

// WithLoopDelay sets the pause between loops.
func WithLoopDelay(d time.Duration) Option {
	return func(a *Animator) {
		a.loopDelay = d
	}
}

// WithSchedule replaces the phase schedule.
func WithSchedule(s Schedule) Option {
	return func(a *Animator) {
		a.schedule = s
	}
}

// WithOnComplete registers a callback fired each time a reveal finishes.
func WithOnComplete(fn func()) Option {
	return func(a *Animator) {
		a.onComplete = fn
	}
}

// WithOnError registers a callback for load and surface errors.
func WithOnError(fn func(error)) Option {
	return func(a *Animator) {
		a.onError = fn
	}
}

// WithOnPhaseChange registers a callback fired when a new phase begins.
func WithOnPhaseChange(fn func(phase int, effect Effect)) Option {
	return func(a *Animator) {
		a.onPhaseChange = fn
	}
}

// WithRand injects the random source used by the effects.
func WithRand(rng Rand) Option {
	return func(a *Animator) {
		a.rng = rng
	}
}

// WithSeed seeds a private PCG source.
func WithSeed(seed uint64) Option {
	return func(a *Animator) {
		a.rng = NewRand(seed)
	}
}

// WithScheduler injects the frame scheduler.
func WithScheduler(s Scheduler) Option {
	return func(a *Animator) {
		a.scheduler = s
	}
}

// WithClock injects the clock used for start times and pause accounting.
func WithClock(c Clock) Option {
	return func(a *Animator) {
		a.clock = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Animator) {
		a.logger = logger
	}
}

// WithFallbackText sets the message drawn when loading fails.
func WithFallbackText(text string) Option {
	return func(a *Animator) {
		a.fallbackText = text
	}
}

// WithSharpen enables a sharpening pass while sampling the source image.
func WithSharpen(sharpen bool) Option {
	return func(a *Animator) {
		a.sharpen = sharpen
	}
}
