package asciiportrait

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is the tick of the real-time scheduler, about 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Handle identifies a scheduled callback so it can be cancelled.
type Handle uint64

// FrameFunc is called once on the next frame with the frame timestamp.
type FrameFunc func(now time.Time)

// Scheduler drives the animator. Frame callbacks fire once on the next
// display frame; After callbacks fire once after a delay. Implementations
// run callbacks one at a time.
type Scheduler interface {
	ScheduleFrame(fn FrameFunc) Handle
	After(d time.Duration, fn func()) Handle
	Cancel(h Handle)
}

type pendingFrame struct {
	id Handle
	fn FrameFunc
}

type pendingTimer struct {
	id       Handle
	deadline time.Time
	fn       func()
}

// callbackQueue holds pending frame and timer callbacks for a clock.
type callbackQueue struct {
	mu     sync.Mutex
	clock  Clock
	nextID Handle
	frames []pendingFrame
	timers []pendingTimer
}

func (q *callbackQueue) ScheduleFrame(fn FrameFunc) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.frames = append(q.frames, pendingFrame{id: q.nextID, fn: fn})
	return q.nextID
}

func (q *callbackQueue) After(d time.Duration, fn func()) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	q.timers = append(q.timers, pendingTimer{
		id:       q.nextID,
		deadline: q.clock.Now().Add(d),
		fn:       fn,
	})
	return q.nextID
}

func (q *callbackQueue) Cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, f := range q.frames {
		if f.id == h {
			q.frames = append(q.frames[:i], q.frames[i+1:]...)
			return
		}
	}
	for i, t := range q.timers {
		if t.id == h {
			q.timers = append(q.timers[:i], q.timers[i+1:]...)
			return
		}
	}
}

// pending returns the number of queued frames and timers.
func (q *callbackQueue) pending() (frames, timers int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames), len(q.timers)
}

// runDue fires expired timers in deadline order, then every frame
// callback queued before this call. Callbacks queued while running wait
// for the next call.
func (q *callbackQueue) runDue(now time.Time) {
	q.mu.Lock()
	var due []pendingTimer
	kept := q.timers[:0]
	for _, t := range q.timers {
		if !t.deadline.After(now) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	q.timers = kept
	q.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.fn()
	}

	q.mu.Lock()
	frames := q.frames
	q.frames = nil
	q.mu.Unlock()

	for _, f := range frames {
		f.fn(now)
	}
}

// TickerScheduler runs callbacks on a single goroutine at a fixed frame
// interval.
type TickerScheduler struct {
	callbackQueue

	interval time.Duration
	running  atomic.Bool
	stopped  atomic.Bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewTickerScheduler creates a stopped scheduler ticking every interval.
// A non-positive interval selects DefaultFrameInterval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TickerScheduler{
		callbackQueue: callbackQueue{clock: SystemClock{}},
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the tick loop. Calling Start on a running or stopped
// scheduler does nothing.
func (s *TickerScheduler) Start() {
	if s.stopped.Load() {
		return
	}
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		go s.loop()
	}
}

// Stop halts the tick loop and waits for the in-flight tick to finish.
// A stopped scheduler cannot be restarted.
func (s *TickerScheduler) Stop() {
	s.stopped.Store(true)
	if s.running.CompareAndSwap(true, false) {
		close(s.stopChan)
		s.wg.Wait()
	}
}

func (s *TickerScheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case now := <-ticker.C:
			s.runDue(now)
		}
	}
}

// ManualScheduler only runs callbacks when told to. It pairs with a
// MockClock for deterministic tests and offline rendering.
type ManualScheduler struct {
	callbackQueue
	mock *MockClock
}

// NewManualScheduler creates a scheduler driven by clock.
func NewManualScheduler(clock *MockClock) *ManualScheduler {
	return &ManualScheduler{
		callbackQueue: callbackQueue{clock: clock},
		mock:          clock,
	}
}

// Clock returns the mock clock the scheduler reads.
func (s *ManualScheduler) Clock() *MockClock {
	return s.mock
}

// Step runs due timers and queued frames at the current clock time.
func (s *ManualScheduler) Step() {
	s.runDue(s.mock.Now())
}

// Advance moves the clock forward by d and then steps once.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mock.Advance(d)
	s.Step()
}

// RunFor steps every frame interval until total has elapsed on the clock.
func (s *ManualScheduler) RunFor(total, frame time.Duration) {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	for elapsed := time.Duration(0); elapsed < total; elapsed += frame {
		s.Advance(frame)
	}
}

// Pending returns the number of queued frame callbacks and timers.
func (s *ManualScheduler) Pending() (frames, timers int) {
	return s.pending()
}

// Idle reports whether nothing is queued.
func (s *ManualScheduler) Idle() bool {
	f, t := s.pending()
	return f == 0 && t == 0
}
