package asciiportrait

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle state of an Animator.
type State int

const (
	StateIdle State = iota
	StateAnimating
	StatePaused
	StateComplete
	StateFallback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	case StateFallback:
		return "fallback"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a point-in-time copy of the animation state.
type Snapshot struct {
	State      State
	Phase      int
	Progress   float64
	FrameCount int
	StartTime  time.Time
	Loops      int
}

// Animator plays the five-phase reveal of one image onto a Surface.
//
// All methods are safe for concurrent use. Frame work runs on the
// scheduler's goroutine under the animator lock; user callbacks are
// invoked after the lock is released, so they may call back into the
// Animator.
type Animator struct {
	mu sync.Mutex

	// Configuration
	width        int
	height       int
	fontSize     float64
	fontFamily   string
	autoStart    bool
	loop         bool
	loopDelay    time.Duration
	schedule     Schedule
	fallbackText string
	sharpen      bool

	onComplete    func()
	onError       func(error)
	onPhaseChange func(phase int, effect Effect)

	// Collaborators
	surface   Surface
	metrics   Metrics
	timeline  *Timeline
	scheduler Scheduler
	owned     *TickerScheduler
	clock     Clock
	rng       Rand
	logger    *zap.Logger

	// Grids
	pixels  PixelGrid
	target  *Grid
	current *Grid
	random  *Grid

	// Animation state
	state      State
	phase      int
	announced  int
	progress   float64
	startTime  time.Time
	frameCount int
	loops      int
	pausedAt   time.Time
	pausedFrom State

	frameHandle Handle
	frameQueued bool
	loopHandle  Handle
	loopQueued  bool
	gen         uint64

	notify []func()
}

// New creates an Animator drawing onto surface. Without WithScheduler it
// owns a TickerScheduler that Close stops.
func New(surface Surface, opts ...Option) (*Animator, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}
	a := &Animator{
		width:        DefaultWidth,
		height:       DefaultHeight,
		fontSize:     DefaultFontSize,
		autoStart:    true,
		loop:         true,
		loopDelay:    DefaultLoopDelay,
		schedule:     DefaultSchedule,
		fallbackText: DefaultFallbackText,
		surface:      surface,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.width <= 0 || a.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, a.width, a.height)
	}
	if err := a.schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}
	if a.loopDelay < 0 {
		a.loopDelay = 0
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.scheduler == nil {
		ts := NewTickerScheduler(DefaultFrameInterval)
		ts.Start()
		a.scheduler = ts
		a.owned = ts
	}
	if a.clock == nil {
		if ms, ok := a.scheduler.(*ManualScheduler); ok {
			a.clock = ms.Clock()
		} else {
			a.clock = SystemClock{}
		}
	}
	if a.rng == nil {
		a.rng = NewRand(uint64(time.Now().UnixNano()))
	}

	a.metrics = NewMetrics(a.fontSize)
	a.timeline = NewTimeline(a.schedule)
	a.current = NewGrid(a.width, a.height)
	a.random = NewGrid(a.width, a.height)
	RandomFill(a.random, a.rng)
	a.phase = 1
	return a, nil
}

// Load opens src and hands the image to SetImage. If the source cannot be
// decoded the animator switches to the fallback display for good: the
// placeholder text is drawn, the error is logged and reported through
// OnError, and it is returned.
func (a *Animator) Load(ctx context.Context, src Source) error {
	img, err := src.Open(ctx)
	if err != nil {
		err = fmt.Errorf("load %s: %w", src, err)
		a.fallback(err)
		return err
	}
	return a.SetImage(img)
}

func (a *Animator) fallback(err error) {
	a.mu.Lock()
	a.cancelPendingLocked()
	a.state = StateFallback
	a.logger.Error("image load failed, showing fallback", zap.Error(err))
	if rerr := renderFallback(a.surface, a.fallbackText); rerr != nil {
		a.logger.Warn("fallback render failed", zap.Error(rerr))
	}
	a.emitError(err)
	a.unlockAndNotify()
}

// SetImage samples img into the pixel and target grids and resets the
// current grid to blank. With auto-start enabled the reveal begins
// immediately.
func (a *Animator) SetImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrNoImage
	}
	pixels := NewPixelGrid(img, a.width, a.height, a.sharpen)
	target := TargetFromPixels(pixels)

	a.mu.Lock()
	a.cancelPendingLocked()
	a.pixels = pixels
	a.target = target
	a.current.Fill(Blank)
	RandomFill(a.random, a.rng)
	a.resetLocked()
	a.state = StateIdle
	a.logger.Debug("image set",
		zap.Int("width", a.width),
		zap.Int("height", a.height),
		zap.Int("bounds_w", img.Bounds().Dx()),
		zap.Int("bounds_h", img.Bounds().Dy()))
	if a.autoStart {
		a.beginLocked()
	}
	a.unlockAndNotify()
	return nil
}

// Start begins the reveal. It does nothing while already animating, in
// the fallback state, or before an image has been set. A paused animator
// resumes.
func (a *Animator) Start() {
	a.mu.Lock()
	switch {
	case a.state == StateFallback, a.state == StateAnimating:
	case a.target == nil:
		a.logger.Debug("start ignored, no image")
	case a.state == StatePaused:
		a.resumeLocked()
	default:
		a.cancelPendingLocked()
		a.beginLocked()
	}
	a.unlockAndNotify()
}

// Pause stops frame scheduling without resetting the animation. Pausing
// during the loop delay holds the pending restart.
func (a *Animator) Pause() {
	a.mu.Lock()
	switch {
	case a.state == StateAnimating:
		a.cancelPendingLocked()
		a.pausedFrom = StateAnimating
	case a.state == StateComplete && a.loopQueued:
		a.cancelPendingLocked()
		a.pausedFrom = StateComplete
	default:
		a.mu.Unlock()
		return
	}
	a.pausedAt = a.clock.Now()
	a.state = StatePaused
	a.logger.Debug("paused", zap.Int("phase", a.phase), zap.Float64("progress", a.progress))
	a.unlockAndNotify()
}

// Resume continues a paused animation from where it stopped.
func (a *Animator) Resume() {
	a.mu.Lock()
	if a.state == StatePaused {
		a.resumeLocked()
	}
	a.unlockAndNotify()
}

func (a *Animator) resumeLocked() {
	now := a.clock.Now()
	switch a.pausedFrom {
	case StateComplete:
		a.state = StateComplete
		a.armLoopLocked()
	default:
		a.startTime = a.startTime.Add(now.Sub(a.pausedAt))
		a.state = StateAnimating
		a.scheduleFrameLocked()
	}
	a.logger.Debug("resumed", zap.Stringer("state", a.state))
}

// Restart discards the current reveal, blanks the current grid and starts
// again from phase 1.
func (a *Animator) Restart() {
	a.mu.Lock()
	if a.state == StateFallback || a.target == nil {
		a.mu.Unlock()
		return
	}
	a.cancelPendingLocked()
	a.current.Fill(Blank)
	a.beginLocked()
	a.unlockAndNotify()
}

// Stop cancels any pending frame or loop timer and returns to idle.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.cancelPendingLocked()
	if a.state != StateFallback {
		a.state = StateIdle
	}
	a.mu.Unlock()
}

// Close stops the animator and, if it owns one, its scheduler. It must
// not be called from a frame or completion callback.
func (a *Animator) Close() error {
	a.Stop()
	if a.owned != nil {
		a.owned.Stop()
	}
	return nil
}

// State returns the lifecycle state.
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Snapshot returns a copy of the animation state.
func (a *Animator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		State:      a.state,
		Phase:      a.phase,
		Progress:   a.progress,
		FrameCount: a.frameCount,
		StartTime:  a.startTime,
		Loops:      a.loops,
	}
}

// Current returns a copy of the grid being displayed.
func (a *Animator) Current() *Grid {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.Clone()
}

// Target returns a copy of the final glyph grid, or nil before an image
// is set.
func (a *Animator) Target() *Grid {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.target == nil {
		return nil
	}
	return a.target.Clone()
}

// Pixels returns the sampled brightness grid, or nil before an image is
// set. The returned grid must not be modified.
func (a *Animator) Pixels() PixelGrid {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pixels
}

// Metrics returns the glyph cell size.
func (a *Animator) Metrics() Metrics {
	return a.metrics
}

// Size returns the grid size in cells.
func (a *Animator) Size() (width, height int) {
	return a.width, a.height
}

// FontFamily returns the configured font family or font file.
func (a *Animator) FontFamily() string {
	return a.fontFamily
}

// Schedule returns the phase schedule.
func (a *Animator) Schedule() Schedule {
	return a.schedule
}

// resetLocked returns the animation state to the start of phase 1.
func (a *Animator) resetLocked() {
	a.phase = 1
	a.announced = 0
	a.progress = 0
	a.frameCount = 0
	a.startTime = a.clock.Now()
}

func (a *Animator) beginLocked() {
	a.resetLocked()
	a.state = StateAnimating
	a.logger.Debug("animation started", zap.Int("loop", a.loops))
	a.scheduleFrameLocked()
}

func (a *Animator) cancelPendingLocked() {
	if a.frameQueued {
		a.scheduler.Cancel(a.frameHandle)
		a.frameQueued = false
	}
	if a.loopQueued {
		a.scheduler.Cancel(a.loopHandle)
		a.loopQueued = false
	}
	// Callbacks already taken off the queue see a stale generation.
	a.gen++
}

func (a *Animator) scheduleFrameLocked() {
	gen := a.gen
	a.frameHandle = a.scheduler.ScheduleFrame(func(now time.Time) {
		a.step(now, gen)
	})
	a.frameQueued = true
}

func (a *Animator) armLoopLocked() {
	if !a.loop {
		return
	}
	gen := a.gen
	a.loopHandle = a.scheduler.After(a.loopDelay, func() {
		a.mu.Lock()
		if gen != a.gen || a.state != StateComplete {
			a.mu.Unlock()
			return
		}
		a.loopQueued = false
		a.loops++
		a.beginLocked()
		a.unlockAndNotify()
	})
	a.loopQueued = true
}

// step advances the animation by one frame.
func (a *Animator) step(now time.Time, gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.state != StateAnimating {
		a.mu.Unlock()
		return
	}
	a.frameQueued = false

	pos := a.timeline.Locate(now.Sub(a.startTime))
	a.phase = pos.Phase
	a.progress = pos.Progress
	effect := pos.Effect(a.schedule)
	if a.announced != pos.Phase {
		a.announced = pos.Phase
		a.logger.Debug("phase", zap.Int("phase", pos.Phase), zap.Stringer("effect", effect))
		if fn := a.onPhaseChange; fn != nil {
			phase := pos.Phase
			a.notify = append(a.notify, func() { fn(phase, effect) })
		}
	}

	if pos.Done {
		a.current.CopyFrom(a.target)
	} else if fn, ok := effects[effect]; ok {
		fn(&effectContext{
			current: a.current,
			target:  a.target,
			random:  a.random,
			frame:   a.frameCount,
			rng:     a.rng,
		}, pos.Progress)
	}
	a.frameCount++

	if err := renderFrame(a.surface, a.current, a.metrics); err != nil {
		a.logger.Warn("present failed", zap.Error(err), zap.Int("frame", a.frameCount))
		a.emitError(err)
	}

	if pos.Done {
		a.completeLocked()
	} else {
		a.scheduleFrameLocked()
	}
	a.unlockAndNotify()
}

func (a *Animator) completeLocked() {
	a.state = StateComplete
	a.logger.Debug("animation complete",
		zap.Int("frames", a.frameCount),
		zap.Duration("elapsed", a.clock.Now().Sub(a.startTime)))
	if fn := a.onComplete; fn != nil {
		a.notify = append(a.notify, fn)
	}
	a.armLoopLocked()
}

func (a *Animator) emitError(err error) {
	if fn := a.onError; fn != nil {
		a.notify = append(a.notify, func() { fn(err) })
	}
}

// unlockAndNotify releases the lock and runs the callbacks queued while
// it was held.
func (a *Animator) unlockAndNotify() {
	pending := a.notify
	a.notify = nil
	a.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}
